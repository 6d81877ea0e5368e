package backend

import (
	"testing"
	"time"

	"zentra/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Organization(t *testing.T) {
	id := uuid.New()
	owner := uuid.New()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	record := Record{
		"id":              id.String(),
		"name":            "Acme",
		"owner_id":        owner.String(),
		"org_code":        "ABC",
		"passkey":         "XYZ",
		"number_of_shops": float64(3),
		"created_at":      created.Format(time.RFC3339Nano),
	}

	var org entity.Organization
	require.NoError(t, Decode(record, &org))
	assert.Equal(t, id, org.ID)
	assert.Equal(t, owner, org.OwnerID)
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, 3, org.NumberOfShops)
	assert.True(t, created.Equal(org.CreatedAt))
}

func TestDecodeAll_Users(t *testing.T) {
	orgID := uuid.New()
	records := []Record{
		{"id": uuid.NewString(), "name": "Ada", "role": "Owner", "org_id": orgID.String(), "created_at": time.Now()},
		{"id": uuid.NewString(), "name": "Bob", "role": "Manager", "org_id": orgID.String(), "created_at": time.Now()},
	}

	users, err := DecodeAll[entity.User](records)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, entity.RoleOwner, users[0].Role)
	assert.Equal(t, entity.RoleManager, users[1].Role)
	assert.Equal(t, orgID, users[1].OrgID)
}

func TestDecode_BadUUID(t *testing.T) {
	var shop entity.Shop
	err := Decode(Record{"id": "not-a-uuid"}, &shop)
	assert.Error(t, err)
}
