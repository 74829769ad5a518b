package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/storage"
)

func TestSurveyRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	survey := &model.Survey{
		ID:        "s1",
		Title:     "Round trip",
		CreatedBy: "u1",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Questions: []model.Question{{ID: "q1", SurveyID: "s1", Title: "Q1", Type: model.QuestionText}},
	}
	if err := store.Surveys.Save(ctx, survey); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	found, err := store.Surveys.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if found.Title != "Round trip" || len(found.Questions) != 1 {
		t.Errorf("FindByID() = %+v", found)
	}

	// the stored aggregate must not alias the caller's copy, down to the
	// question slice and its options
	found.Title = "mutated"
	found.Questions[0].Title = "mutated"
	again, _ := store.Surveys.FindByID(ctx, "s1")
	if again.Title != "Round trip" {
		t.Error("stored survey aliased a returned copy")
	}
	if again.Questions[0].Title != "Q1" {
		t.Error("stored questions aliased a returned copy")
	}

	// same for the slice handed to Save
	survey.Questions[0].Title = "mutated after save"
	again, _ = store.Surveys.FindByID(ctx, "s1")
	if again.Questions[0].Title != "Q1" {
		t.Error("stored questions aliased the saved slice")
	}

	if err := store.Surveys.DeleteByID(ctx, "s1"); err != nil {
		t.Fatalf("DeleteByID() error: %v", err)
	}
	_, err = store.Surveys.FindByID(ctx, "s1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("FindByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestSurveyFilters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	store.Surveys.Save(ctx, &model.Survey{ID: "s1", Title: "A", CreatedBy: "u1", Published: true})
	store.Surveys.Save(ctx, &model.Survey{ID: "s2", Title: "B", CreatedBy: "u1"})
	store.Surveys.Save(ctx, &model.Survey{ID: "s3", Title: "C", CreatedBy: "u2"})

	all, _ := store.Surveys.FindAll(ctx)
	if len(all) != 3 {
		t.Errorf("len(FindAll()) = %d, want 3", len(all))
	}

	owned, _ := store.Surveys.FindByOwner(ctx, "u1")
	if len(owned) != 2 {
		t.Errorf("len(FindByOwner(u1)) = %d, want 2", len(owned))
	}

	published, _ := store.Surveys.FindByPublished(ctx, true)
	if len(published) != 1 || published[0].ID != "s1" {
		t.Errorf("FindByPublished(true) = %+v, want just s1", published)
	}
}

func TestResponsesBySurvey(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	store.Responses.Save(ctx, &model.SurveyResponse{
		ID: "r1", SurveyID: "s1", RespondentID: "a@example.com",
		Answers: []model.Answer{{QuestionID: "q1", Value: []string{"yes"}}},
	})
	store.Responses.Save(ctx, &model.SurveyResponse{ID: "r2", SurveyID: "s1", RespondentID: "b@example.com"})
	store.Responses.Save(ctx, &model.SurveyResponse{ID: "r3", SurveyID: "s2", RespondentID: "c@example.com"})

	responses, err := store.Responses.FindBySurveyID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindBySurveyID() error: %v", err)
	}
	if len(responses) != 2 {
		t.Errorf("len(responses) = %d, want 2", len(responses))
	}

	// answer values must not alias the stored copy
	for i := range responses {
		if responses[i].ID == "r1" {
			responses[i].Answers[0].Value[0] = "mutated"
		}
	}
	responses, _ = store.Responses.FindBySurveyID(ctx, "s1")
	for _, resp := range responses {
		if resp.ID == "r1" && resp.Answers[0].Value[0] != "yes" {
			t.Error("stored answers aliased a returned copy")
		}
	}

	store.Responses.DeleteByID(ctx, "r1")
	responses, _ = store.Responses.FindBySurveyID(ctx, "s1")
	if len(responses) != 1 {
		t.Errorf("len(responses) = %d after delete, want 1", len(responses))
	}
}

func TestUsersByEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	exists, err := store.Users.ExistsByEmail(ctx, "u@example.com")
	if err != nil || exists {
		t.Fatalf("ExistsByEmail() = %v, %v, want false, nil", exists, err)
	}

	store.Users.Save(ctx, &model.User{ID: "u1", Email: "u@example.com", Name: "U"})

	exists, _ = store.Users.ExistsByEmail(ctx, "u@example.com")
	if !exists {
		t.Error("ExistsByEmail() = false after save")
	}

	user, err := store.Users.FindByEmail(ctx, "u@example.com")
	if err != nil || user.ID != "u1" {
		t.Errorf("FindByEmail() = %+v, %v", user, err)
	}

	_, err = store.Users.FindByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("FindByEmail() = %v, want ErrNotFound", err)
	}
}

func TestConcurrentSaves(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			store.Surveys.Save(ctx, &model.Survey{ID: id, Title: id, CreatedBy: "u1"})
			store.Surveys.FindByID(ctx, id)
			store.Surveys.FindAll(ctx)
		}(i)
	}
	wg.Wait()

	all, err := store.Surveys.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(all) != 50 {
		t.Errorf("len(FindAll()) = %d, want 50", len(all))
	}
}
