// Package artguide embeds the artguide search pipeline in another Go program
// without running the HTTP server.
//
// The client answers natural-language questions about the Rijksmuseum
// collection and resolves artwork details with the same fallbacks the
// server uses: a failed LLM call degrades to heuristic terms or canned text,
// a failed detail fetch degrades to the curated known table.
//
//	client, _ := artguide.New(ctx,
//	    artguide.WithCollection(os.Getenv("RIJKS_API_KEY")),
//	    artguide.WithOpenAI(os.Getenv("OPENAI_API_KEY"), ""),
//	)
//	defer client.Close()
//
//	res, _ := client.Chat(ctx, "paintings by Rembrandt", 1)
//	for _, a := range res.Artworks {
//	    detail := client.Artwork(ctx, a.ObjectNumber)
//	    fmt.Println(detail.Title, detail.Location)
//	}
//
// Without an LLM option the client runs on heuristics alone.
// WithValkey persists the token budget set by WithBudget.
package artguide
