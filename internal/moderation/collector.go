package moderation

import (
	"strings"

	"crewhub/internal/models"
	"crewhub/internal/validation"
)

// Submission is what the crew edit form posts: the sparse changes plus
// whether the logo and photo editors were actually touched.
type Submission struct {
	Changes        models.Changes `json:"changes"`
	LogoModified   bool           `json:"logo_modified"`
	PhotosModified bool           `json:"photos_modified"`
}

// Collector turns a Submission into a validated, normalized Changes payload.
type Collector struct {
	images *validation.ImageRules
}

// NewCollector creates a collector that checks image references against rules.
func NewCollector(images *validation.ImageRules) *Collector {
	return &Collector{images: images}
}

// Collect validates the submission. The returned error is always a
// *validation.FieldError naming the offending key.
func (c *Collector) Collect(sub Submission) (models.Changes, error) {
	ch := sub.Changes

	// Untouched editors never produce a key; touched ones always do.
	switch {
	case !sub.LogoModified:
		ch.LogoURL = models.Field[string]{}
	case !ch.LogoURL.IsSet():
		ch.LogoURL = models.Null[string]()
	}
	switch {
	case !sub.PhotosModified:
		ch.ActivityPhotos = models.Field[[]string]{}
	case !ch.ActivityPhotos.IsSet():
		ch.ActivityPhotos = models.Set([]string{})
	}

	if ch.Description.IsSet() {
		if err := validation.ValidateDescription(ch.Description.Value()); err != nil {
			return models.Changes{}, err
		}
		ch.Description = models.Set(strings.TrimSpace(ch.Description.Value()))
	}

	if v, ok := ch.Instagram.Get(); ok {
		handle, err := validation.NormalizeInstagram(v)
		if err != nil {
			return models.Changes{}, err
		}
		if handle == "" {
			ch.Instagram = models.Null[string]()
		} else {
			ch.Instagram = models.Set(handle)
		}
	}

	if v, ok := ch.LogoURL.Get(); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			ch.LogoURL = models.Null[string]()
		} else if err := c.images.ValidateImageURL(models.FieldLogoURL, v); err != nil {
			return models.Changes{}, err
		} else {
			ch.LogoURL = models.Set(v)
		}
	}

	if v, ok := ch.ActivityDays.Get(); ok {
		days, err := validation.NormalizeActivityDays(v)
		if err != nil {
			return models.Changes{}, err
		}
		ch.ActivityDays = models.Set(days)
	}

	if v, ok := ch.ActivityLocations.Get(); ok {
		locations, err := validation.NormalizeActivityLocations(v)
		if err != nil {
			return models.Changes{}, err
		}
		ch.ActivityLocations = models.Set(locations)
	}

	if v, ok := ch.AgeRange.Get(); ok {
		if err := validation.ValidateAgeRange(v.MinAge, v.MaxAge); err != nil {
			return models.Changes{}, err
		}
	}

	if v, ok := ch.ActivityPhotos.Get(); ok {
		if err := c.images.ValidatePhotos(models.FieldActivityPhotos, v); err != nil {
			return models.Changes{}, err
		}
	}

	if ch.Empty() {
		return models.Changes{}, &validation.FieldError{Field: "changes", Message: "no changes were submitted"}
	}
	return ch, nil
}
