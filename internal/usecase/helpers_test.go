package usecase

import (
	"context"
	"sync"
	"testing"

	"zentra/internal/backend"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*backend.MemoryGateway, *backend.Handle) {
	t.Helper()
	gw := backend.NewMemoryGateway(zap.NewNop())
	h := backend.NewHandle(gw, "", zap.NewNop())
	t.Cleanup(h.Close)
	return gw, h
}

// faultyClient fails inserts and queries on the configured tables and
// counts calls.
type faultyClient struct {
	backend.Client

	mu         sync.Mutex
	failInsert map[string]error
	failQuery  map[string]error
	calls      int
}

func (c *faultyClient) count() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *faultyClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *faultyClient) SignUp(ctx context.Context, email, password string, metadata backend.Metadata) (*backend.Identity, error) {
	c.count()
	return c.Client.SignUp(ctx, email, password, metadata)
}

func (c *faultyClient) Insert(ctx context.Context, table string, record backend.Record) (backend.Record, error) {
	c.count()
	if err := c.failInsert[table]; err != nil {
		return nil, err
	}
	return c.Client.Insert(ctx, table, record)
}

func (c *faultyClient) Query(ctx context.Context, table string, filters ...backend.Filter) ([]backend.Record, error) {
	c.count()
	if err := c.failQuery[table]; err != nil {
		return nil, err
	}
	return c.Client.Query(ctx, table, filters...)
}

// sequenceGenerator hands out the given codes in order.
func sequenceGenerator(codes ...string) CodeGenerator {
	var mu sync.Mutex
	return func(length int) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}
}

type seededOrg struct {
	OwnerID string
	OrgID   string
	OrgCode string
	Passkey string
}

// seedOrganization creates an owner account, organization and owner profile
// directly on the gateway.
func seedOrganization(t *testing.T, gw *backend.MemoryGateway, email string) seededOrg {
	t.Helper()
	ctx := context.Background()

	owner, err := gw.SignUp(ctx, email, "secret1", backend.Metadata{"full_name": "Ada Owner", "role": "Owner"})
	require.NoError(t, err)

	org, err := gw.Insert(ctx, "", "organizations", backend.Record{
		"name":            "Acme",
		"owner_id":        owner.ID,
		"org_code":        "ORGCODE" + email,
		"passkey":         "PASSKEY" + email,
		"number_of_shops": 2,
	})
	require.NoError(t, err)

	_, err = gw.Insert(ctx, "", "users", backend.Record{
		"id": owner.ID, "name": "Ada Owner", "email": email, "phone": "555", "role": "Owner", "org_id": org["id"],
	})
	require.NoError(t, err)

	return seededOrg{
		OwnerID: owner.ID,
		OrgID:   org.String("id"),
		OrgCode: org.String("org_code"),
		Passkey: org.String("passkey"),
	}
}

// seedMember creates an account plus profile with the given role.
func seedMember(t *testing.T, gw *backend.MemoryGateway, orgID, email, role string) string {
	t.Helper()
	ctx := context.Background()

	identity, err := gw.SignUp(ctx, email, "secret1", backend.Metadata{"full_name": email, "role": role})
	require.NoError(t, err)

	_, err = gw.Insert(ctx, "", "users", backend.Record{
		"id": identity.ID, "name": email, "email": email, "phone": "", "role": role, "org_id": orgID,
	})
	require.NoError(t, err)
	return identity.ID
}

func countRows(t *testing.T, gw *backend.MemoryGateway, table string, filters ...backend.Filter) int64 {
	t.Helper()
	n, err := gw.Count(context.Background(), "", table, filters)
	require.NoError(t, err)
	return n
}

// clientFor opens a fresh handle on an existing gateway.
func clientFor(t *testing.T, gw *backend.MemoryGateway) (*backend.MemoryGateway, *backend.Handle) {
	t.Helper()
	h := backend.NewHandle(gw, "", zap.NewNop())
	t.Cleanup(h.Close)
	return gw, h
}
