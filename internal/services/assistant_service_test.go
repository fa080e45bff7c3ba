package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dislogroup/salesflow/internal/conversation"
	mongorepo "github.com/dislogroup/salesflow/internal/repositories/mongo"
	"github.com/dislogroup/salesflow/internal/utils"
)

type fakeAudit struct {
	recorded []*mongorepo.Interaction
}

func (f *fakeAudit) Insert(_ context.Context, it *mongorepo.Interaction) error {
	f.recorded = append(f.recorded, it)
	return nil
}

func (f *fakeAudit) ListByIdentity(context.Context, string, int) ([]mongorepo.Interaction, error) {
	return nil, nil
}

type fakeLLM struct {
	prompts []string
	answer  string
	err     error
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func (f *fakeLLM) Close() error { return nil }

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) SummarizeForGrounding(context.Context) (string, error) {
	f.calls++
	return f.summary, f.err
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func newTestAssistant(provider *fakeLLM, sources GroundingSources) *assistantService {
	return &assistantService{
		llm:     provider,
		store:   conversation.NewStore(0),
		sources: sources,
		now:     fixedNow,
	}
}

func TestReplaceRelativeDates(t *testing.T) {
	s := newTestAssistant(&fakeLLM{}, GroundingSources{})

	assert.Equal(t, "livraison 2025-03-11", s.ReplaceRelativeDates("livraison demain"))
	assert.Equal(t, "stock 2025-03-10 ?", s.ReplaceRelativeDates("stock aujourd'hui ?"))
	assert.Equal(t, "stock 2025-03-10 ?", s.ReplaceRelativeDates("stock aujourd’hui ?"))
	assert.Equal(t, "ventes de 2025-03-09", s.ReplaceRelativeDates("ventes de hier"))
	assert.Equal(t, "livraison 2025-03-11", s.ReplaceRelativeDates("livraison Demain"))
	assert.Equal(t, "rien a changer", s.ReplaceRelativeDates("rien a changer"))
}

func TestAskRejectsBlankQuery(t *testing.T) {
	s := newTestAssistant(&fakeLLM{}, GroundingSources{})

	_, err := s.Ask(context.Background(), "rachid", "   ")

	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestAskGroundsCompanyQuestionsOnCompanyInfo(t *testing.T) {
	products := &fakeSummarizer{summary: "Produits disponibles :"}
	provider := &fakeLLM{answer: "Un distributeur marocain."}
	s := newTestAssistant(provider, GroundingSources{Products: products})

	_, err := s.Ask(context.Background(), "rachid", "C'est quoi Dislogroup ?")

	require.NoError(t, err)
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "distributeur marocain")
	assert.Equal(t, 0, products.calls, "company questions must not hit the domain summaries")
}

func TestAskAssemblesContextInFixedOrder(t *testing.T) {
	products := &fakeSummarizer{summary: "Produits disponibles :\n- Coca 1L"}
	clients := &fakeSummarizer{err: assert.AnError}
	orders := &fakeSummarizer{summary: "Commandes recentes :\n- #12"}
	provider := &fakeLLM{answer: "ok"}
	s := newTestAssistant(provider, GroundingSources{
		Products: products,
		Clients:  clients,
		Orders:   orders,
	})

	_, err := s.Ask(context.Background(), "rachid", "Quels produits sont en stock ?")

	require.NoError(t, err)
	require.Len(t, provider.prompts, 1)
	prompt := provider.prompts[0]

	// a failing section degrades to a placeholder, never an error
	assert.Contains(t, prompt, "Clients : (indisponible)")

	iProducts := strings.Index(prompt, "Produits disponibles")
	iClients := strings.Index(prompt, "Clients : (indisponible)")
	iOrders := strings.Index(prompt, "Commandes recentes")
	iHistory := strings.Index(prompt, "Historique de conversation :")
	require.True(t, iProducts >= 0 && iClients >= 0 && iOrders >= 0 && iHistory >= 0)
	assert.True(t, iProducts < iClients && iClients < iOrders && iOrders < iHistory)
}

func TestAskRecordsBothTurns(t *testing.T) {
	provider := &fakeLLM{answer: "Voici la reponse."}
	s := newTestAssistant(provider, GroundingSources{})

	_, err := s.Ask(context.Background(), "rachid", "question ?")

	require.NoError(t, err)
	turns := s.History("rachid")
	require.Len(t, turns, 2)
	assert.Equal(t, conversation.SpeakerUser, turns[0].Speaker)
	assert.Equal(t, "question ?", turns[0].Text)
	assert.Equal(t, conversation.SpeakerAssistant, turns[1].Speaker)
	assert.Equal(t, "Voici la reponse.", turns[1].Text)
}

func TestAskAnonymousFallsBackToSharedIdentity(t *testing.T) {
	provider := &fakeLLM{answer: "ok"}
	s := newTestAssistant(provider, GroundingSources{})

	_, err := s.Ask(context.Background(), "", "question ?")

	require.NoError(t, err)
	assert.Len(t, s.History(conversation.AnonymousIdentity), 2)
}

func TestAskPropagatesProviderFailure(t *testing.T) {
	provider := &fakeLLM{err: utils.E(utils.CodeUnavailable, "test", "surcharge", nil)}
	s := newTestAssistant(provider, GroundingSources{})

	_, err := s.Ask(context.Background(), "rachid", "question ?")

	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	// the user turn stays, no assistant turn is recorded
	turns := s.History("rachid")
	require.Len(t, turns, 1)
	assert.Equal(t, conversation.SpeakerUser, turns[0].Speaker)
}

func TestAskRecordsInteractionWithServiceClock(t *testing.T) {
	s := newTestAssistant(&fakeLLM{answer: "bonjour"}, GroundingSources{})
	audit := &fakeAudit{}
	s.audit = audit

	_, err := s.Ask(context.Background(), "rachid", "salut")
	require.NoError(t, err)

	require.Len(t, audit.recorded, 1)
	it := audit.recorded[0]
	assert.Equal(t, "ask", it.Kind)
	assert.Equal(t, "ok", it.Outcome)
	assert.Equal(t, fixedNow(), it.CreatedAt)
	assert.Zero(t, it.LatencyMS)
}
