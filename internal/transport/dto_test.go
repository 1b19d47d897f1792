package transport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRegisterRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw", Role: "artist"}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(r *RegisterRequest) {}},
		{name: "missing username", mutate: func(r *RegisterRequest) { r.Username = "" }, wantErr: "username"},
		{name: "bad email", mutate: func(r *RegisterRequest) { r.Email = "not-an-email" }, wantErr: "email"},
		{name: "missing password", mutate: func(r *RegisterRequest) { r.Password = "" }, wantErr: "password"},
		{name: "password too long", mutate: func(r *RegisterRequest) { r.Password = strings.Repeat("x", 73) }, wantErr: "password"},
		{name: "missing role", mutate: func(r *RegisterRequest) { r.Role = "" }, wantErr: "role"},
		{name: "unknown role", mutate: func(r *RegisterRequest) { r.Role = "admin" }, wantErr: "role"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegisterRequest_Normalize(t *testing.T) {
	t.Parallel()

	r := RegisterRequest{Username: " alice ", Email: "  Alice@X.IO ", Role: " artist"}
	r.Normalize()
	assert.Equal(t, "alice", r.Username)
	assert.Equal(t, "alice@x.io", r.Email)
	assert.Equal(t, "artist", r.Role)
}

func TestCreateItemRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     CreateItemRequest
		wantErr bool
	}{
		{name: "valid", req: CreateItemRequest{Name: "Vase", Description: "blue", Price: ptr(40.0)}},
		{name: "free item", req: CreateItemRequest{Name: "Vase", Description: "blue", Price: ptr(0.0)}},
		{name: "missing price", req: CreateItemRequest{Name: "Vase", Description: "blue"}, wantErr: true},
		{name: "negative price", req: CreateItemRequest{Name: "Vase", Description: "blue", Price: ptr(-1.0)}, wantErr: true},
		{name: "blank name", req: CreateItemRequest{Name: "   ", Description: "blue", Price: ptr(1.0)}, wantErr: true},
		{name: "missing description", req: CreateItemRequest{Name: "Vase", Price: ptr(1.0)}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := tt.req
			r.Normalize()
			if tt.wantErr {
				assert.Error(t, r.Validate())
			} else {
				assert.NoError(t, r.Validate())
			}
		})
	}
}

func TestPatchItemRequest(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, PatchItemRequest{}.Validate(), ErrEmptyPatch)

	blank := PatchItemRequest{Name: ptr("  ")}
	blank.Normalize()
	assert.Error(t, blank.Validate())

	assert.Error(t, PatchItemRequest{Price: ptr(-5.0)}.Validate())

	p := PatchItemRequest{Name: ptr(" Blue Vase "), Price: ptr(45.0)}
	p.Normalize()
	require.NoError(t, p.Validate())
	assert.Equal(t, map[string]any{"name": "Blue Vase", "price": 45.0}, p.Fields())
}
