package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func ids(versions []model.Version) []string {
	result := make([]string, 0, len(versions))
	for _, v := range versions {
		result = append(result, v.ID)
	}
	return result
}

func TestSortVersions(t *testing.T) {
	tests := []struct {
		name     string
		versions []model.Version
		want     []string
		wantOK   bool
		wantErr  string
	}{
		{
			name: "chain",
			versions: []model.Version{
				{ID: "c", VersionIdentifier: "v3", IsNewVersionOf: "v2"},
				{ID: "a", VersionIdentifier: "v1"},
				{ID: "b", VersionIdentifier: "v2", IsNewVersionOf: "v1"},
			},
			want:   []string{"a", "b", "c"},
			wantOK: true,
		},
		{
			name: "cycle without start",
			versions: []model.Version{
				{ID: "b", VersionIdentifier: "v2", IsNewVersionOf: "v1"},
				{ID: "a", VersionIdentifier: "v1", IsNewVersionOf: "v2"},
			},
			want:    []string{"a", "b"},
			wantErr: "Circular dependency detected in versions - sorting by natural order: b, a",
		},
		{
			name: "missing version identifier",
			versions: []model.Version{
				{ID: "a"},
				{ID: "b", VersionIdentifier: "v2", IsNewVersionOf: "v1"},
			},
			want:    []string{"a", "b"},
			wantErr: "Circular dependency detected in versions - sorting by natural order: a, b",
		},
		{
			name: "ambiguous successors",
			versions: []model.Version{
				{ID: "a", VersionIdentifier: "v1"},
				{ID: "c", VersionIdentifier: "v2b", IsNewVersionOf: "v1"},
				{ID: "b", VersionIdentifier: "v2a", IsNewVersionOf: "v1"},
			},
			want:    []string{"a", "b", "c"},
			wantOK:  true,
			wantErr: "Ambiguous new versions detected. This is not valid. c, b",
		},
		{
			name: "several versions without predecessor",
			versions: []model.Version{
				{ID: "b", VersionIdentifier: "v2"},
				{ID: "a", VersionIdentifier: "v1"},
				{ID: "c", VersionIdentifier: "v3", IsNewVersionOf: "v2"},
			},
			want:    []string{"a", "b", "c"},
			wantErr: "Ambiguous new versions detected. This is not valid. b, a",
		},
		{
			name: "detached versions are appended",
			versions: []model.Version{
				{ID: "x", VersionIdentifier: "v9", IsNewVersionOf: "v7"},
				{ID: "a", VersionIdentifier: "v1"},
			},
			want:   []string{"a", "x"},
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUtils(nil)
			sorted, ok := SortVersions(tt.versions, u)
			assert.Equal(t, tt.want, ids(sorted))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr == "" {
				assert.Empty(t, u.Errors())
			} else {
				assert.Equal(t, []string{tt.wantErr}, u.Errors())
			}
		})
	}
}

func TestSortVersions_NilUtils(t *testing.T) {
	sorted, ok := SortVersions([]model.Version{{ID: "a"}}, nil)
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, ids(sorted))
}
