package moderation

import (
	"context"
	"log/slog"

	"crewhub/internal/metrics"
	"crewhub/internal/models"
)

// FieldFailure records one changes key that could not be written.
type FieldFailure struct {
	Field string `json:"field"`
	Err   error  `json:"-"`
}

// Report is the outcome of applying one approved request.
type Report struct {
	Applied  []string       `json:"applied"`
	Failures []FieldFailure `json:"failures,omitempty"`
}

// OK reports whether every present key was written.
func (r *Report) OK() bool {
	return r == nil || len(r.Failures) == 0
}

// FailedFields lists the keys that failed.
func (r *Report) FailedFields() []string {
	if r == nil {
		return nil
	}
	fields := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		fields = append(fields, f.Field)
	}
	return fields
}

// Applier writes an approved Changes payload onto the crew. Every present
// key is attempted on its own; a failure is logged and recorded but does
// not stop the remaining keys.
type Applier struct {
	crews  CrewWriter
	logger *slog.Logger
}

// NewApplier creates an applier writing through crews.
func NewApplier(crews CrewWriter, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{crews: crews, logger: logger}
}

type applyStep struct {
	field string
	run   func(ctx context.Context) error
}

// Apply runs the steps for req.Changes in canonical key order.
func (a *Applier) Apply(ctx context.Context, req *models.EditRequest) *Report {
	report := &Report{Applied: []string{}}
	for _, step := range a.steps(req) {
		if err := step.run(ctx); err != nil {
			a.logger.Error("failed to apply edit request field",
				"request_id", req.ID,
				"crew_id", req.CrewID,
				"field", step.field,
				"error", err,
			)
			metrics.RecordApplyFailure(step.field)
			report.Failures = append(report.Failures, FieldFailure{Field: step.field, Err: err})
			continue
		}
		report.Applied = append(report.Applied, step.field)
	}
	return report
}

func (a *Applier) steps(req *models.EditRequest) []applyStep {
	crewID := req.CrewID
	ch := req.Changes
	var steps []applyStep

	add := func(present bool, field string, run func(ctx context.Context) error) {
		if present {
			steps = append(steps, applyStep{field: field, run: run})
		}
	}
	replace := func(set models.ChildSet) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			return a.crews.ReplaceChildren(ctx, crewID, set)
		}
	}

	add(ch.Description.IsSet(), models.FieldDescription, func(ctx context.Context) error {
		return a.crews.UpdateCrewDescription(ctx, crewID, ch.Description.Value())
	})
	add(ch.Instagram.IsSet(), models.FieldInstagram, func(ctx context.Context) error {
		return a.crews.UpdateCrewInstagram(ctx, crewID, ch.Instagram.Ptr())
	})
	add(ch.LogoURL.IsSet(), models.FieldLogoURL, func(ctx context.Context) error {
		return a.crews.UpdateCrewLogo(ctx, crewID, ch.LogoURL.Ptr())
	})
	add(ch.ActivityDays.IsSet(), models.FieldActivityDays,
		replace(models.ActivityDaySet(ch.ActivityDays.Value())))
	add(ch.ActivityLocations.IsSet(), models.FieldActivityLocations,
		replace(models.ActivityLocationSet(ch.ActivityLocations.Value())))
	add(ch.AgeRange.IsSet(), models.FieldAgeRange,
		replace(models.AgeRangeSet{Range: ch.AgeRange.Ptr()}))
	add(ch.ActivityPhotos.IsSet(), models.FieldActivityPhotos,
		replace(models.PhotoSet(ch.ActivityPhotos.Value())))

	return steps
}
