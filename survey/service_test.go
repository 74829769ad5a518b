package survey

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/storage"
	"github.com/mbolis/survey-api/storage/memory"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *storage.Store, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	svc := NewService(store.Surveys, store.Responses)
	svc.now = clock.Now
	return svc, store, clock
}

const owner = "owner-123"

func mustCreate(t *testing.T, svc *Service, in SurveyInput) *model.Survey {
	t.Helper()

	created, err := svc.Create(context.Background(), in, owner)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return created
}

func mustAddQuestion(t *testing.T, svc *Service, surveyID string, q model.Question) *model.Survey {
	t.Helper()

	updated, err := svc.AddQuestion(context.Background(), surveyID, q, owner)
	if err != nil {
		t.Fatalf("AddQuestion() error: %v", err)
	}
	return updated
}

func mustPublish(t *testing.T, svc *Service, surveyID string) *model.Survey {
	t.Helper()

	published, err := svc.Publish(context.Background(), surveyID, owner)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	return published
}

func TestCreateSurvey(t *testing.T) {
	svc, _, clock := newTestService(t)

	created := mustCreate(t, svc, SurveyInput{
		Title:         "Satisfaction",
		Description:   "How did we do?",
		DurationValue: intp(1),
		DurationUnit:  model.DurationDays,
	})

	if created.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if created.Published {
		t.Error("Create() returned a published survey")
	}
	if created.CreatedBy != owner {
		t.Errorf("CreatedBy = %q, want %q", created.CreatedBy, owner)
	}
	if len(created.Questions) != 0 {
		t.Errorf("Questions = %v, want empty", created.Questions)
	}
	want := clock.now.Add(24 * time.Hour)
	if created.ExpiresAt == nil || !created.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", created.ExpiresAt, want)
	}

	found, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if found.Title != "Satisfaction" {
		t.Errorf("Title = %q, want %q", found.Title, "Satisfaction")
	}
}

func TestCreateSurveyWithoutDuration(t *testing.T) {
	svc, _, _ := newTestService(t)

	created := mustCreate(t, svc, SurveyInput{Title: "No deadline"})
	if created.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", created.ExpiresAt)
	}

	created = mustCreate(t, svc, SurveyInput{
		Title:         "Unit none",
		DurationValue: intp(5),
		DurationUnit:  model.DurationNone,
	})
	if created.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", created.ExpiresAt)
	}
}

func TestCreateSurveyEmptyTitle(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), SurveyInput{Title: "  "}, owner)
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Create() = %v, want ErrEmptyTitle", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() = %v, want a validation error", err)
	}
}

func TestGetUnknownSurvey(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() = %v, want ErrNotFound", err)
	}
}

func TestPublish(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Draft"})

	_, err := svc.Publish(context.Background(), created.ID, owner)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("Publish() with no questions = %v, want ErrNoQuestions", err)
	}

	mustAddQuestion(t, svc, created.ID, model.Question{Title: "Any thoughts?", Type: model.QuestionText})

	published := mustPublish(t, svc, created.ID)
	if !published.Published {
		t.Error("Publish() did not set the published flag")
	}
}

func TestPublishRequiresOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Mine"})

	_, err := svc.Publish(context.Background(), created.ID, "somebody-else")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Publish() = %v, want ErrUnauthorized", err)
	}
}

func TestMutationsUnpublish(t *testing.T) {
	type mutation struct {
		name string
		run  func(t *testing.T, svc *Service, surveyID, questionID string)
	}

	mutations := []mutation{
		{"update", func(t *testing.T, svc *Service, surveyID, _ string) {
			_, err := svc.Update(context.Background(), surveyID, SurveyInput{Title: "Renamed"}, owner)
			if err != nil {
				t.Fatalf("Update() error: %v", err)
			}
		}},
		{"add question", func(t *testing.T, svc *Service, surveyID, _ string) {
			mustAddQuestion(t, svc, surveyID, model.Question{Title: "Another", Type: model.QuestionText})
		}},
		{"update question", func(t *testing.T, svc *Service, surveyID, questionID string) {
			_, err := svc.UpdateQuestion(context.Background(), surveyID, questionID, model.Question{Title: "Changed", Type: model.QuestionText}, owner)
			if err != nil {
				t.Fatalf("UpdateQuestion() error: %v", err)
			}
		}},
		{"delete question", func(t *testing.T, svc *Service, surveyID, questionID string) {
			_, err := svc.DeleteQuestion(context.Background(), surveyID, questionID, owner)
			if err != nil {
				t.Fatalf("DeleteQuestion() error: %v", err)
			}
		}},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			created := mustCreate(t, svc, SurveyInput{Title: "Published"})
			withQuestion := mustAddQuestion(t, svc, created.ID, model.Question{Title: "Q1", Type: model.QuestionText})
			mustPublish(t, svc, created.ID)

			m.run(t, svc, created.ID, withQuestion.Questions[0].ID)

			found, err := svc.Get(context.Background(), created.ID)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if found.Published {
				t.Error("survey is still published after mutation")
			}
		})
	}
}

func TestUpdateRecomputesExpiry(t *testing.T) {
	svc, _, clock := newTestService(t)

	created := mustCreate(t, svc, SurveyInput{
		Title:         "Timed",
		DurationValue: intp(1),
		DurationUnit:  model.DurationHours,
	})

	clock.Advance(30 * time.Minute)

	// same duration fields, but expiry restarts from the update instant
	updated, err := svc.Update(context.Background(), created.ID, SurveyInput{
		Title:         "Timed",
		DurationValue: intp(1),
		DurationUnit:  model.DurationHours,
	}, owner)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	want := clock.now.Add(time.Hour)
	if updated.ExpiresAt == nil || !updated.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", updated.ExpiresAt, want)
	}

	// dropping the duration clears the expiry instead of preserving it
	updated, err = svc.Update(context.Background(), created.ID, SurveyInput{Title: "Timed"}, owner)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", updated.ExpiresAt)
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Mine"})

	_, err := svc.Update(context.Background(), created.ID, SurveyInput{Title: "Stolen"}, "somebody-else")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Update() = %v, want ErrUnauthorized", err)
	}
}

func TestGetPublic(t *testing.T) {
	svc, _, clock := newTestService(t)

	created := mustCreate(t, svc, SurveyInput{
		Title:         "Public",
		DurationValue: intp(1),
		DurationUnit:  model.DurationDays,
	})
	mustAddQuestion(t, svc, created.ID, model.Question{Title: "Q1", Type: model.QuestionText})

	_, err := svc.GetPublic(context.Background(), created.ID)
	if !errors.Is(err, ErrNotPublished) {
		t.Fatalf("GetPublic() before publish = %v, want ErrNotPublished", err)
	}

	mustPublish(t, svc, created.ID)
	_, err = svc.GetPublic(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPublic() after publish error: %v", err)
	}

	clock.Advance(25 * time.Hour)
	_, err = svc.GetPublic(context.Background(), created.ID)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("GetPublic() past expiry = %v, want ErrExpired", err)
	}

	_, err = svc.GetPublic(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPublic() unknown id = %v, want ErrNotFound", err)
	}
}

func TestQuestionLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Long one"})

	for i := 0; i < model.MaxQuestionsPerSurvey; i++ {
		mustAddQuestion(t, svc, created.ID, model.Question{
			Title: fmt.Sprintf("Question %d", i+1),
			Type:  model.QuestionText,
			Order: i,
		})
	}

	_, err := svc.AddQuestion(context.Background(), created.ID, model.Question{Title: "One too many"}, owner)
	if !errors.Is(err, ErrTooManyQuestions) {
		t.Fatalf("AddQuestion() #101 = %v, want ErrTooManyQuestions", err)
	}

	found, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(found.Questions) != model.MaxQuestionsPerSurvey {
		t.Errorf("len(Questions) = %d, want %d", len(found.Questions), model.MaxQuestionsPerSurvey)
	}
}

func TestAddQuestionPreservesOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Ordered"})

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		mustAddQuestion(t, svc, created.ID, model.Question{Title: title, Type: model.QuestionText})
	}

	found, _ := svc.Get(context.Background(), created.ID)
	for i, q := range found.Questions {
		if q.Title != titles[i] {
			t.Errorf("Questions[%d].Title = %q, want %q", i, q.Title, titles[i])
		}
		if q.ID == "" {
			t.Errorf("Questions[%d] has no id", i)
		}
		if q.SurveyID != created.ID {
			t.Errorf("Questions[%d].SurveyID = %q, want %q", i, q.SurveyID, created.ID)
		}
	}
}

func TestAddQuestionRejectsOversizedImage(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Illustrated"})

	_, err := svc.AddQuestion(context.Background(), created.ID, model.Question{
		Title:    "What is this?",
		Type:     model.QuestionText,
		ImageURL: inlineImage(oversizedPayloadLen),
	}, owner)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("AddQuestion() = %v, want ErrImageTooLarge", err)
	}

	found, _ := svc.Get(context.Background(), created.ID)
	if len(found.Questions) != 0 {
		t.Error("rejected question was stored anyway")
	}
}

func TestUpdateQuestion(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Editable"})
	withQuestions := mustAddQuestion(t, svc, created.ID, model.Question{Title: "Old title", Type: model.QuestionText})
	mustAddQuestion(t, svc, created.ID, model.Question{Title: "Keep me", Type: model.QuestionText})

	questionID := withQuestions.Questions[0].ID
	updated, err := svc.UpdateQuestion(context.Background(), created.ID, questionID, model.Question{
		Title:    "New title",
		Type:     model.QuestionSingleChoice,
		Options:  []string{"yes", "no"},
		Required: true,
	}, owner)
	if err != nil {
		t.Fatalf("UpdateQuestion() error: %v", err)
	}

	q := updated.Questions[0]
	if q.ID != questionID {
		t.Errorf("question id changed: %q, want %q", q.ID, questionID)
	}
	if q.SurveyID != created.ID {
		t.Errorf("SurveyID = %q, want %q", q.SurveyID, created.ID)
	}
	if q.Title != "New title" || q.Type != model.QuestionSingleChoice || !q.Required {
		t.Errorf("question not replaced: %+v", q)
	}
	if updated.Questions[1].Title != "Keep me" {
		t.Errorf("sibling question touched: %+v", updated.Questions[1])
	}
}

func TestUpdateUnknownQuestionIsSilent(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Quiet"})
	mustAddQuestion(t, svc, created.ID, model.Question{Title: "Only one", Type: model.QuestionText})

	updated, err := svc.UpdateQuestion(context.Background(), created.ID, "no-such-question", model.Question{Title: "Ghost"}, owner)
	if err != nil {
		t.Fatalf("UpdateQuestion() = %v, want silent no-op", err)
	}
	if len(updated.Questions) != 1 || updated.Questions[0].Title != "Only one" {
		t.Errorf("question set changed: %+v", updated.Questions)
	}
}

func TestDeleteQuestionIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Shrinking"})
	withQuestion := mustAddQuestion(t, svc, created.ID, model.Question{Title: "Doomed", Type: model.QuestionText})

	questionID := withQuestion.Questions[0].ID
	updated, err := svc.DeleteQuestion(context.Background(), created.ID, questionID, owner)
	if err != nil {
		t.Fatalf("DeleteQuestion() error: %v", err)
	}
	if len(updated.Questions) != 0 {
		t.Errorf("Questions = %+v, want empty", updated.Questions)
	}

	_, err = svc.DeleteQuestion(context.Background(), created.ID, questionID, owner)
	if err != nil {
		t.Errorf("second DeleteQuestion() = %v, want no error", err)
	}
}

func TestDeleteCascadesResponses(t *testing.T) {
	svc, store, _ := newTestService(t)
	responseSvc := NewResponseService(store.Responses, svc)

	created := mustCreate(t, svc, SurveyInput{Title: "Doomed"})
	mustAddQuestion(t, svc, created.ID, model.Question{Title: "Q1", Type: model.QuestionText})
	mustPublish(t, svc, created.ID)

	for i := 0; i < 3; i++ {
		_, err := responseSvc.Submit(context.Background(), created.ID, SubmissionInput{
			RespondentEmail: fmt.Sprintf("respondent%d@example.com", i),
		})
		if err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
	}

	err := svc.Delete(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	_, err = svc.Get(context.Background(), created.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}

	responses, err := responseSvc.ListBySurvey(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ListBySurvey() error: %v", err)
	}
	if len(responses) != 0 {
		t.Errorf("len(responses) = %d, want 0 after cascade", len(responses))
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, SurveyInput{Title: "Protected"})

	err := svc.Delete(context.Background(), created.ID, "somebody-else")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Delete() = %v, want ErrUnauthorized", err)
	}
}

func TestListings(t *testing.T) {
	svc, _, _ := newTestService(t)

	mine := mustCreate(t, svc, SurveyInput{Title: "Mine"})
	mustAddQuestion(t, svc, mine.ID, model.Question{Title: "Q", Type: model.QuestionText})
	mustPublish(t, svc, mine.ID)

	_, err := svc.Create(context.Background(), SurveyInput{Title: "Theirs"}, "somebody-else")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	all, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(ListAll()) = %d, want 2", len(all))
	}

	owned, err := svc.ListByOwner(context.Background(), owner)
	if err != nil {
		t.Fatalf("ListByOwner() error: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != mine.ID {
		t.Errorf("ListByOwner() = %+v, want just %q", owned, mine.ID)
	}

	published, err := svc.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("ListPublished() error: %v", err)
	}
	if len(published) != 1 || published[0].ID != mine.ID {
		t.Errorf("ListPublished() = %+v, want just %q", published, mine.ID)
	}
}
