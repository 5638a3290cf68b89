package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/vincebiwott/safari-park-maintenance-v/models"
)

// pgrstSingleObject asks PostgREST for exactly one row; it answers 406 otherwise
const pgrstSingleObject = "application/vnd.pgrst.object+json"

// profileRow is the insert payload; created_at is left to the database
type profileRow struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Nickname     *string `json:"nickname"`
	Role         *string `json:"role"`
	TechCategory *string `json:"tech_category"`
	Approved     bool    `json:"approved"`
}

// PostgrestProfileStore implements ProfileStore over the project's REST data API
type PostgrestProfileStore struct {
	client *SupabaseClient
	table  string
}

// NewPostgrestProfileStore builds a store for the given table
func NewPostgrestProfileStore(client *SupabaseClient, table string) *PostgrestProfileStore {
	return &PostgrestProfileStore{client: client, table: table}
}

func (s *PostgrestProfileStore) path(query url.Values) string {
	p := "/rest/v1/" + url.PathEscape(s.table)
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return p
}

// Insert writes one profile row
func (s *PostgrestProfileStore) Insert(ctx context.Context, profile *models.Profile) error {
	rows := []profileRow{{
		ID:           profile.ID,
		Email:        profile.Email,
		FullName:     profile.FullName,
		Nickname:     profile.Nickname,
		Role:         profile.Role,
		TechCategory: profile.TechCategory,
		Approved:     profile.Approved,
	}}

	resp, err := s.client.do(ctx, "insert", http.MethodPost, s.path(nil), rows, map[string]string{
		"Prefer": "return=minimal",
	})
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// FindRole reads role and approval for exactly one profile
func (s *PostgrestProfileStore) FindRole(ctx context.Context, id string) (*RoleRecord, error) {
	query := url.Values{}
	query.Set("select", "role,approved")
	query.Set("id", "eq."+id)

	resp, err := s.client.do(ctx, "find_role", http.MethodGet, s.path(query), nil, map[string]string{
		"Accept": pgrstSingleObject,
	})
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) && perr.StatusCode == http.StatusNotAcceptable {
			return nil, ErrProfileNotUnique
		}
		return nil, err
	}

	var record RoleRecord
	if err := decodeJSON(resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns every profile projected to id, role and nickname
func (s *PostgrestProfileStore) List(ctx context.Context) ([]models.ProfileSummary, error) {
	query := url.Values{}
	query.Set("select", "id,role,nickname")

	resp, err := s.client.do(ctx, "list", http.MethodGet, s.path(query), nil, nil)
	if err != nil {
		return nil, err
	}

	summaries := []models.ProfileSummary{}
	if err := decodeJSON(resp, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
