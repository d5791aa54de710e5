package artguide

import (
	"context"

	"github.com/kailas-cloud/artguide/internal/domain"
	domusage "github.com/kailas-cloud/artguide/internal/domain/usage"
	chatuc "github.com/kailas-cloud/artguide/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/artguide/internal/usecase/health"
)

// --- chatUseCase mock ---

type mockChatUC struct {
	chatFn func(ctx context.Context, req chatuc.Request) (domain.SearchResponse, error)
}

func (m *mockChatUC) Chat(ctx context.Context, req chatuc.Request) (domain.SearchResponse, error) {
	return m.chatFn(ctx, req)
}

// --- artworkUseCase mock ---

type mockArtworkUC struct {
	resolveFn func(ctx context.Context, objectNumber string) domain.ArtworkDetail
}

func (m *mockArtworkUC) Resolve(ctx context.Context, objectNumber string) domain.ArtworkDetail {
	return m.resolveFn(ctx, objectNumber)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- usageUseCase mock ---

type mockUsageUC struct {
	getReportFn func(ctx context.Context, period domusage.Period) domusage.Report
}

func (m *mockUsageUC) GetReport(ctx context.Context, period domusage.Period) domusage.Report {
	return m.getReportFn(ctx, period)
}

// --- Completer mock ---

type mockCompleter struct {
	fn func(ctx context.Context, p Prompt) (Completion, error)
}

func (m *mockCompleter) Complete(ctx context.Context, p Prompt) (Completion, error) {
	return m.fn(ctx, p)
}

// testClient creates a Client with mock use-cases for unit testing.
func testClient(chat chatUseCase, art artworkUseCase, health healthUseCase, usage usageUseCase) *Client {
	return &Client{
		chatSvc:    chat,
		artworkSvc: art,
		healthSvc:  health,
		usageSvc:   usage,
	}
}
