// Package sqlite stores survey aggregates in SQLite. Questions and answers
// travel as JSON columns on their parent row, so every write replaces the
// whole aggregate, mirroring the repository contract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/storage"
)

func Open(dbURL string) (*storage.Store, error) {
	db, err := sql.Open("sqlite3", dbURL)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, err
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return storage.NewStore(
		&surveyRepository{db},
		&responseRepository{db},
		&userRepository{db},
		db.Close,
	), nil
}

type surveyRepository struct {
	db *sql.DB
}

func (r *surveyRepository) Save(ctx context.Context, survey *model.Survey) error {
	questions, err := json.Marshal(survey.Questions)
	if err != nil {
		return err
	}

	var durationValue sql.NullInt64
	if survey.DurationValue != nil {
		durationValue = sql.NullInt64{Int64: int64(*survey.DurationValue), Valid: true}
	}
	var expiresAt sql.NullTime
	if survey.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *survey.ExpiresAt, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO survey (
			id, title, description, created_by, created_at, updated_at,
			published, duration_value, duration_unit, expires_at, questions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			updated_at = excluded.updated_at,
			published = excluded.published,
			duration_value = excluded.duration_value,
			duration_unit = excluded.duration_unit,
			expires_at = excluded.expires_at,
			questions = excluded.questions`,
		survey.ID,
		survey.Title,
		survey.Description,
		survey.CreatedBy,
		survey.CreatedAt,
		survey.UpdatedAt,
		survey.Published,
		durationValue,
		survey.DurationUnit,
		expiresAt,
		string(questions),
	)
	return err
}

const surveyColumns = `
	id, title, description, created_by, created_at, updated_at,
	published, duration_value, duration_unit, expires_at, questions`

func scanSurvey(row interface{ Scan(...any) error }) (*model.Survey, error) {
	var s model.Survey
	var durationValue sql.NullInt64
	var durationUnit sql.NullString
	var expiresAt sql.NullTime
	var questions string

	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.Published, &durationValue, &durationUnit, &expiresAt, &questions,
	)
	if err != nil {
		return nil, err
	}

	if durationValue.Valid {
		v := int(durationValue.Int64)
		s.DurationValue = &v
	}
	s.DurationUnit = durationUnit.String
	if expiresAt.Valid {
		t := expiresAt.Time
		s.ExpiresAt = &t
	}
	err = json.Unmarshal([]byte(questions), &s.Questions)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *surveyRepository) FindByID(ctx context.Context, id string) (*model.Survey, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM survey WHERE id = ?`, id)
	survey, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return survey, err
}

func (r *surveyRepository) findWhere(ctx context.Context, where string, args ...any) ([]model.Survey, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+surveyColumns+` FROM survey`+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		survey, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, *survey)
	}
	return surveys, rows.Err()
}

func (r *surveyRepository) FindAll(ctx context.Context) ([]model.Survey, error) {
	return r.findWhere(ctx, ``)
}

func (r *surveyRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Survey, error) {
	return r.findWhere(ctx, ` WHERE created_by = ?`, ownerID)
}

func (r *surveyRepository) FindByPublished(ctx context.Context, published bool) ([]model.Survey, error) {
	return r.findWhere(ctx, ` WHERE published = ?`, published)
}

func (r *surveyRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM survey WHERE id = ?`, id)
	return err
}

type responseRepository struct {
	db *sql.DB
}

func (r *responseRepository) Save(ctx context.Context, response *model.SurveyResponse) error {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO response (id, survey_id, respondent_id, answers, completed_at)
		VALUES (?, ?, ?, ?, ?)`,
		response.ID,
		response.SurveyID,
		response.RespondentID,
		string(answers),
		response.CompletedAt,
	)
	return err
}

func (r *responseRepository) FindBySurveyID(ctx context.Context, surveyID string) ([]model.SurveyResponse, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, survey_id, respondent_id, answers, completed_at
		FROM response
		WHERE survey_id = ?`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []model.SurveyResponse{}
	for rows.Next() {
		var resp model.SurveyResponse
		var answers string
		err = rows.Scan(&resp.ID, &resp.SurveyID, &resp.RespondentID, &answers, &resp.CompletedAt)
		if err != nil {
			return nil, err
		}
		err = json.Unmarshal([]byte(answers), &resp.Answers)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *responseRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM response WHERE id = ?`, id)
	return err
}

type userRepository struct {
	db *sql.DB
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM user
		WHERE email = ?`,
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM user WHERE email = ?`, email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
