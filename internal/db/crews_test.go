package db_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"crewhub/internal/db"
	"crewhub/internal/models"
	"crewhub/internal/testutil"
)

func TestListVisibleCrews(t *testing.T) {
	database := testutil.TestDB(t)
	ctx := context.Background()

	visible := testutil.CreateTestCrew(t, database, "보이는크루", true)
	testutil.CreateTestCrew(t, database, "숨은크루", false)

	if err := database.ReplaceChildren(ctx, visible, models.ActivityDaySet{"월요일", "목요일"}); err != nil {
		t.Fatalf("ReplaceChildren() error = %v", err)
	}

	crews, err := database.ListVisibleCrews(ctx)
	if err != nil {
		t.Fatalf("ListVisibleCrews() error = %v", err)
	}

	if len(crews) != 1 {
		t.Fatalf("ListVisibleCrews() returned %d crews, want 1", len(crews))
	}
	if crews[0].ID != visible {
		t.Errorf("ListVisibleCrews() returned %s, want %s", crews[0].ID, visible)
	}
	if want := []string{"월요일", "목요일"}; !reflect.DeepEqual(crews[0].ActivityDays, want) {
		t.Errorf("ActivityDays = %v, want %v", crews[0].ActivityDays, want)
	}
	if crews[0].Location == nil || crews[0].Location.Address == "" {
		t.Error("ListVisibleCrews() did not load the location")
	}
}

func TestGetCrewByID_NotFound(t *testing.T) {
	database := testutil.TestDB(t)

	_, err := database.GetCrewByID(context.Background(), uuid.New())
	if err != db.ErrCrewNotFound {
		t.Errorf("GetCrewByID() error = %v, want ErrCrewNotFound", err)
	}
}

func TestReplaceChildren_Wholesale(t *testing.T) {
	database := testutil.TestDB(t)
	ctx := context.Background()
	crewID := testutil.CreateTestCrew(t, database, "교체크루", true)

	if err := database.ReplaceChildren(ctx, crewID, models.ActivityDaySet{"금요일"}); err != nil {
		t.Fatalf("ReplaceChildren(first) error = %v", err)
	}
	if err := database.ReplaceChildren(ctx, crewID, models.ActivityDaySet{"월요일", "수요일"}); err != nil {
		t.Fatalf("ReplaceChildren(second) error = %v", err)
	}
	if err := database.ReplaceChildren(ctx, crewID, models.PhotoSet{"https://a/1.jpg", "https://a/2.jpg"}); err != nil {
		t.Fatalf("ReplaceChildren(photos) error = %v", err)
	}
	if err := database.ReplaceChildren(ctx, crewID, models.AgeRangeSet{Range: &models.AgeRange{MinAge: 25, MaxAge: 45}}); err != nil {
		t.Fatalf("ReplaceChildren(age) error = %v", err)
	}

	crew, err := database.GetCrewByID(ctx, crewID)
	if err != nil {
		t.Fatalf("GetCrewByID() error = %v", err)
	}

	if want := []string{"월요일", "수요일"}; !reflect.DeepEqual(crew.ActivityDays, want) {
		t.Errorf("ActivityDays = %v, want %v", crew.ActivityDays, want)
	}
	if len(crew.Photos) != 2 || crew.Photos[1].DisplayOrder != 1 {
		t.Errorf("Photos = %+v", crew.Photos)
	}
	if crew.AgeRange == nil || crew.AgeRange.MinAge != 25 || crew.AgeRange.MaxAge != 45 {
		t.Errorf("AgeRange = %+v", crew.AgeRange)
	}

	// Empty set clears the collection
	if err := database.ReplaceChildren(ctx, crewID, models.ActivityDaySet{}); err != nil {
		t.Fatalf("ReplaceChildren(empty) error = %v", err)
	}
	crew, _ = database.GetCrewByID(ctx, crewID)
	if len(crew.ActivityDays) != 0 {
		t.Errorf("ActivityDays after clear = %v, want none", crew.ActivityDays)
	}
}

func TestUpdateCrewColumns(t *testing.T) {
	database := testutil.TestDB(t)
	ctx := context.Background()
	crewID := testutil.CreateTestCrew(t, database, "컬럼크루", true)

	logo := "https://img.example.com/logo.png"
	if err := database.UpdateCrewLogo(ctx, crewID, &logo); err != nil {
		t.Fatalf("UpdateCrewLogo() error = %v", err)
	}
	if err := database.UpdateCrewDescription(ctx, crewID, ""); err != nil {
		t.Fatalf("UpdateCrewDescription() error = %v", err)
	}

	crew, err := database.GetCrewByID(ctx, crewID)
	if err != nil {
		t.Fatalf("GetCrewByID() error = %v", err)
	}
	if crew.LogoURL == nil || *crew.LogoURL != logo {
		t.Errorf("LogoURL = %v, want %q", crew.LogoURL, logo)
	}
	if crew.Description != "" {
		t.Errorf("Description = %q, want empty", crew.Description)
	}

	if err := database.UpdateCrewLogo(ctx, crewID, nil); err != nil {
		t.Fatalf("UpdateCrewLogo(nil) error = %v", err)
	}
	crew, _ = database.GetCrewByID(ctx, crewID)
	if crew.LogoURL != nil {
		t.Errorf("LogoURL after clear = %v, want nil", *crew.LogoURL)
	}

	if err := database.UpdateCrewInstagram(ctx, uuid.New(), nil); err != db.ErrCrewNotFound {
		t.Errorf("UpdateCrewInstagram(unknown) error = %v, want ErrCrewNotFound", err)
	}
}

func TestSetCrewVisibility(t *testing.T) {
	database := testutil.TestDB(t)
	ctx := context.Background()
	crewID := testutil.CreateTestCrew(t, database, "숨김크루", true)

	if err := database.SetCrewVisibility(ctx, crewID, false); err != nil {
		t.Fatalf("SetCrewVisibility() error = %v", err)
	}
	crews, _ := database.ListVisibleCrews(ctx)
	if len(crews) != 0 {
		t.Errorf("hidden crew still listed: %v", crews)
	}
}
