package narrate

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/artguide/internal/domain"
)

const systemPrompt = `You are an art expert guiding visitors through the Rijksmuseum collection.

Rules:
- Describe only the artworks in the list you are given. Never mention works that are not listed.
- If the list holds letters or documents rather than paintings, say so politely and suggest more specific search terms, for example "painting biblical scene Rembrandt" instead of "biblical scenes".
- For thematic requests, focus on what the works show and their historical context.
- If nothing was found, suggest better search terms without inventing artworks.
- Keep the answer concise and informative.`

const (
	listHeader   = "Here are the artworks that were found matching this query:\n"
	noArtworks   = "No specific artworks were found for this query."
	instructions = "Please provide a helpful, informative response about these specific artworks. " +
		"Make sure your response only discusses the artworks listed above and does not mention other artworks that aren't in the results."
)

// BuildPrompt renders the user prompt for at most sample artworks.
func BuildPrompt(message string, artworks []domain.ArtworkSummary, sample int) string {
	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteString("\n\n")
	sb.WriteString(listHeader)

	if len(artworks) == 0 {
		sb.WriteString(noArtworks)
	} else {
		if sample > 0 && len(artworks) > sample {
			artworks = artworks[:sample]
		}
		for i, a := range artworks {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "- \"%s\" by %s", a.Title, a.PrincipalOrFirstMaker)
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(instructions)
	return sb.String()
}
