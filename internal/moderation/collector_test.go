package moderation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewhub/internal/models"
	"crewhub/internal/validation"
)

const (
	testLogoURL  = "https://img.example.com/storage/v1/object/public/crew-images/logos/crew-1.png"
	testPhotoURL = "https://img.example.com/storage/v1/object/public/crew-images/photos/crew-1/a.jpg"
)

func testCollector(t *testing.T) *Collector {
	t.Helper()
	rules, err := validation.NewImageRules(
		[]string{"img.example.com"},
		[]string{`^/storage/v1/object/public/crew-images/(logos|photos)/[A-Za-z0-9._/-]+$`},
		10,
	)
	require.NoError(t, err)
	return NewCollector(rules)
}

func decodeSubmission(t *testing.T, body string) Submission {
	t.Helper()
	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(body), &sub))
	return sub
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
		check   func(t *testing.T, ch models.Changes)
	}{
		{
			name: "untouched logo editor drops the key",
			body: `{"changes": {"description": "소개", "logo_url": null}, "logo_modified": false}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.False(t, ch.LogoURL.IsSet())
				assert.Equal(t, []string{"description"}, ch.Keys())
			},
		},
		{
			name: "touched logo editor without a value clears the logo",
			body: `{"changes": {}, "logo_modified": true}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.True(t, ch.LogoURL.IsNull())
			},
		},
		{
			name: "touched photo editor without a value clears the photos",
			body: `{"changes": {}, "photos_modified": true}`,
			check: func(t *testing.T, ch models.Changes) {
				require.True(t, ch.ActivityPhotos.IsSet())
				assert.Empty(t, ch.ActivityPhotos.Value())
			},
		},
		{
			name: "untouched photo editor drops photos",
			body: `{"changes": {"instagram": "crew", "activity_photos": ["` + testPhotoURL + `"]}}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.False(t, ch.ActivityPhotos.IsSet())
			},
		},
		{
			name: "valid images are kept",
			body: `{"changes": {"logo_url": "` + testLogoURL + `", "activity_photos": ["` + testPhotoURL + `"]}, "logo_modified": true, "photos_modified": true}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.Equal(t, testLogoURL, ch.LogoURL.Value())
				assert.Equal(t, []string{testPhotoURL}, ch.ActivityPhotos.Value())
			},
		},
		{
			name:    "logo on an untrusted host",
			body:    `{"changes": {"logo_url": "https://evil.example.org/storage/v1/object/public/crew-images/logos/x.png"}, "logo_modified": true}`,
			wantErr: "logo_url",
		},
		{
			name:    "photo with a bad path",
			body:    `{"changes": {"activity_photos": ["https://img.example.com/other/x.jpg"]}, "photos_modified": true}`,
			wantErr: "activity_photos",
		},
		{
			name:    "blank description",
			body:    `{"changes": {"description": "   "}}`,
			wantErr: "description",
		},
		{
			name:    "null description",
			body:    `{"changes": {"description": null}}`,
			wantErr: "description",
		},
		{
			name: "description is trimmed",
			body: `{"changes": {"description": "  새 소개 "}}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.Equal(t, "새 소개", ch.Description.Value())
			},
		},
		{
			name: "instagram handle loses its at sign",
			body: `{"changes": {"instagram": "@hangang_runners"}}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.Equal(t, "hangang_runners", ch.Instagram.Value())
			},
		},
		{
			name: "empty instagram becomes an explicit clear",
			body: `{"changes": {"instagram": ""}}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.True(t, ch.Instagram.IsNull())
			},
		},
		{
			name:    "bad instagram handle",
			body:    `{"changes": {"instagram": "not a handle!"}}`,
			wantErr: "instagram",
		},
		{
			name:    "age range out of order",
			body:    `{"changes": {"age_range": {"min_age": 45, "max_age": 25}}}`,
			wantErr: "age_range",
		},
		{
			name:    "age range out of bounds",
			body:    `{"changes": {"age_range": {"min_age": 20, "max_age": 101}}}`,
			wantErr: "age_range",
		},
		{
			name: "activity days are deduplicated",
			body: `{"changes": {"activity_days": ["월요일", "수요일", "월요일"]}}`,
			check: func(t *testing.T, ch models.Changes) {
				assert.Equal(t, []string{"월요일", "수요일"}, ch.ActivityDays.Value())
			},
		},
		{
			name: "empty activity days stay present",
			body: `{"changes": {"activity_days": []}}`,
			check: func(t *testing.T, ch models.Changes) {
				require.True(t, ch.ActivityDays.IsSet())
				assert.Empty(t, ch.ActivityDays.Value())
			},
		},
		{
			name:    "unknown weekday",
			body:    `{"changes": {"activity_days": ["Monday"]}}`,
			wantErr: "activity_days",
		},
		{
			name:    "blank activity location",
			body:    `{"changes": {"activity_locations": ["여의도", " "]}}`,
			wantErr: "activity_locations",
		},
		{
			name:    "nothing changed",
			body:    `{"changes": {"logo_url": "` + testLogoURL + `"}}`,
			wantErr: "changes",
		},
	}

	c := testCollector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := c.Collect(decodeSubmission(t, tt.body))
			if tt.wantErr != "" {
				var fe *validation.FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantErr, fe.Field)
				return
			}
			require.NoError(t, err)
			tt.check(t, ch)
		})
	}
}

func TestCollect_TooManyPhotos(t *testing.T) {
	photos := make([]string, 11)
	for i := range photos {
		photos[i] = testPhotoURL
	}
	sub := Submission{
		Changes:        models.Changes{ActivityPhotos: models.Set(photos)},
		PhotosModified: true,
	}

	_, err := testCollector(t).Collect(sub)

	var fe *validation.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "activity_photos", fe.Field)
}
