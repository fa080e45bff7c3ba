package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

type fakeClientSvc struct {
	ClientService
	rows   []models.Client
	byName map[string]*models.Client
}

func (f *fakeClientSvc) List(context.Context) ([]models.Client, error) { return f.rows, nil }

func (f *fakeClientSvc) ResolveByName(_ context.Context, name string) (*models.Client, error) {
	if c, ok := f.byName[utils.NormalizeName(name)]; ok {
		return c, nil
	}
	return nil, utils.E(utils.CodeNotFound, "test", "client introuvable : "+name, nil)
}

type fakeProductSvc struct {
	ProductService
	rows   []models.Product
	byName map[string]*models.Product
}

func (f *fakeProductSvc) List(context.Context) ([]models.Product, error) { return f.rows, nil }

func (f *fakeProductSvc) ResolveByName(_ context.Context, name string) (*models.Product, error) {
	if p, ok := f.byName[utils.NormalizeName(name)]; ok {
		return p, nil
	}
	return nil, utils.E(utils.CodeNotFound, "test", "produit introuvable : "+name, nil)
}

type fakeOrderSvc struct {
	OrderService
	created *models.Order
	vendeur *models.User
}

func (f *fakeOrderSvc) Create(_ context.Context, o *models.Order, vendeur *models.User) (*models.Order, error) {
	f.created = o
	f.vendeur = vendeur
	o.ID = 42
	if vendeur != nil {
		o.VendeurID = vendeur.ID
	}
	return o, nil
}

type fakeUserSvc struct {
	UserService
	user *models.User
}

func (f *fakeUserSvc) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.user != nil && f.user.Username == username {
		return f.user, nil
	}
	return nil, utils.E(utils.CodeNotFound, "test", "utilisateur introuvable", nil)
}

func newIntakeFixture(reply string) (*intakeService, *fakeOrderSvc) {
	client := &models.Client{ID: 7, Name: "Epicerie Amal"}
	coca := &models.Product{ID: 3, Name: "Coca 1L", UnitPrice: 12.5}

	orders := &fakeOrderSvc{}
	s := &intakeService{
		llm: &fakeLLM{answer: reply},
		clients: &fakeClientSvc{
			rows:   []models.Client{*client},
			byName: map[string]*models.Client{"epicerie amal": client},
		},
		products: &fakeProductSvc{
			rows:   []models.Product{*coca},
			byName: map[string]*models.Product{"coca 1l": coca},
		},
		orders: orders,
		users:  &fakeUserSvc{user: &models.User{ID: 9, Username: "rachid", Role: models.RolePreVendeur}},
		now:    fixedNow,
	}
	return s, orders
}

func TestPlaceOrderHappyPath(t *testing.T) {
	s, orders := newIntakeFixture(`{"client":"Epicerie Amal","produits":[{"nom":"Coca 1L","quantite":3}]}`)

	result := s.PlaceOrder(context.Background(), "rachid", "3 coca 1l pour amal")

	assert.Equal(t, "✅ Commande créée pour **Epicerie Amal** avec ID: 42", result)

	require.NotNil(t, orders.created)
	o := orders.created
	assert.Equal(t, int64(7), o.ClientID)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, int64(3), o.Lines[0].ProductID)
	assert.Equal(t, 3, o.Lines[0].Quantity)
	assert.Equal(t, 12.5, o.Lines[0].UnitPrice)
	assert.Equal(t, fixedNow(), o.CreatedDate)
	assert.Equal(t, fixedNow().AddDate(0, 0, 3), o.DeliveryDate)
	require.NotNil(t, orders.vendeur)
	assert.Equal(t, int64(9), orders.vendeur.ID)
}

func TestPlaceOrderToleratesFencedReply(t *testing.T) {
	s, orders := newIntakeFixture("```json\n{\"client\":\"Epicerie Amal\",\"produits\":[{\"nom\":\"Coca 1L\",\"quantite\":2}]}\n```")

	result := s.PlaceOrder(context.Background(), "rachid", "2 coca pour amal")

	assert.Contains(t, result, "✅")
	require.NotNil(t, orders.created)
	assert.Equal(t, 2, orders.created.Lines[0].Quantity)
}

func TestPlaceOrderUnknownClientHasNoSideEffects(t *testing.T) {
	s, orders := newIntakeFixture(`{"client":"Epicerie Inconnue","produits":[{"nom":"Coca 1L","quantite":1}]}`)

	result := s.PlaceOrder(context.Background(), "rachid", "1 coca pour inconnue")

	assert.Contains(t, result, "❌ Erreur lors du traitement :")
	assert.Contains(t, result, "client introuvable")
	assert.Nil(t, orders.created, "nothing may be persisted when the client cannot be resolved")
}

func TestPlaceOrderRejectsUnparseableReply(t *testing.T) {
	s, orders := newIntakeFixture("Bien sur ! Voici la commande que j'ai comprise.")

	result := s.PlaceOrder(context.Background(), "rachid", "du coca pour amal")

	assert.Contains(t, result, "❌")
	assert.Contains(t, result, "reponse IA non valide : JSON attendu")
	assert.Nil(t, orders.created)
}

func TestPlaceOrderRequiresUser(t *testing.T) {
	s, orders := newIntakeFixture(`{}`)
	llm := s.llm.(*fakeLLM)

	result := s.PlaceOrder(context.Background(), "", "3 coca pour amal")

	assert.Contains(t, result, "❌")
	assert.Contains(t, result, "aucun utilisateur connecte")
	assert.Empty(t, llm.prompts, "no model call without an authenticated vendeur")
	assert.Nil(t, orders.created)
}

func TestParseExtractedOrder(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		ok    bool
	}{
		{"valid", `{"client":"A","produits":[{"nom":"P","quantite":1}]}`, true},
		{"fenced", "```json\n{\"client\":\"A\",\"produits\":[{\"nom\":\"P\",\"quantite\":1}]}\n```", true},
		{"empty client", `{"client":" ","produits":[{"nom":"P","quantite":1}]}`, false},
		{"no lines", `{"client":"A","produits":[]}`, false},
		{"blank product name", `{"client":"A","produits":[{"nom":"","quantite":1}]}`, false},
		{"zero quantity", `{"client":"A","produits":[{"nom":"P","quantite":0}]}`, false},
		{"negative quantity", `{"client":"A","produits":[{"nom":"P","quantite":-2}]}`, false},
		{"prose", "voici la commande", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := parseExtractedOrder(tc.reply)
			if tc.ok {
				require.NoError(t, err)
				assert.NotNil(t, out)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPlaceOrderRecordsInteractionWithServiceClock(t *testing.T) {
	s, _ := newIntakeFixture(`{"client":"Epicerie Amal","produits":[{"nom":"Coca 1L","quantite":3}]}`)
	audit := &fakeAudit{}
	s.audit = audit

	s.PlaceOrder(context.Background(), "rachid", "3 coca 1l pour amal")

	require.Len(t, audit.recorded, 1)
	it := audit.recorded[0]
	assert.Equal(t, "commande", it.Kind)
	assert.Equal(t, "ok", it.Outcome)
	assert.Equal(t, fixedNow(), it.CreatedAt)
	assert.Zero(t, it.LatencyMS)
}
