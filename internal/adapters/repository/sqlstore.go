package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
)

// SQLStore implements Store on database/sql. Used when a DSN is
// configured; the schema is applied on open.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens the database at dsn and ensures the schema exists.
func NewSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Hackathon(ctx context.Context, id string) (model.Hackathon, error) {
	var (
		h      model.Hackathon
		prizes model.Prizes
		first  sql.NullString
		second sql.NullString
		third  sql.NullString
		part   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, results_date, first_prize, second_prize, third_prize, participant_prize
		FROM hackathon WHERE id = ?
	`, id).Scan(&h.ID, &h.Title, &h.ResultsDate, &first, &second, &third, &part)
	if err == sql.ErrNoRows {
		return model.Hackathon{}, fmt.Errorf("hackathon %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Hackathon{}, fmt.Errorf("query hackathon: %w", err)
	}
	if first.Valid || second.Valid || third.Valid || part.Valid {
		prizes = model.Prizes{
			First:       first.String,
			Second:      second.String,
			Third:       third.String,
			Participant: part.String,
		}
		h.Prizes = &prizes
	}
	return h, nil
}

func (s *SQLStore) Projects(ctx context.Context, hackathonID string) ([]model.Project, error) {
	if _, err := s.Hackathon(ctx, hackathonID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, team_name, display_name, technologies, final_score
		FROM project WHERE hackathon_id = ? ORDER BY seq
	`, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var (
			p           model.Project
			description sql.NullString
			teamName    sql.NullString
			techJSON    sql.NullString
			finalScore  sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Title, &description, &teamName, &p.DisplayName, &techJSON, &finalScore); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.HackathonID = hackathonID
		p.Description = description.String
		p.TeamName = teamName.String
		if techJSON.Valid && techJSON.String != "" {
			if err := json.Unmarshal([]byte(techJSON.String), &p.Technologies); err != nil {
				return nil, fmt.Errorf("decode technologies for project %q: %w", p.ID, err)
			}
		}
		if finalScore.Valid {
			v := finalScore.Float64
			p.FinalScore = &v
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	for i := range projects {
		scores, err := s.scores(ctx, hackathonID, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Scores = scores
	}
	return projects, nil
}

func (s *SQLStore) scores(ctx context.Context, hackathonID, projectID string) ([]model.JudgeScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, judge_id, total_score, submitted_at, feedback
		FROM judge_score WHERE hackathon_id = ? AND project_id = ? ORDER BY id
	`, hackathonID, projectID)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var (
		scores []model.JudgeScore
		ids    []int64
	)
	for rows.Next() {
		var (
			id       int64
			sc       model.JudgeScore
			total    sql.NullFloat64
			feedback sql.NullString
		)
		if err := rows.Scan(&id, &sc.JudgeID, &total, &sc.SubmittedAt, &feedback); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if total.Valid {
			v := total.Float64
			sc.TotalScore = &v
		}
		sc.Feedback = feedback.String
		scores = append(scores, sc)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}

	for i, id := range ids {
		criteria, err := s.criteria(ctx, id)
		if err != nil {
			return nil, err
		}
		scores[i].Criteria = criteria
	}
	return scores, nil
}

func (s *SQLStore) criteria(ctx context.Context, judgeScoreID int64) ([]model.CriterionScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, score, max_score
		FROM criterion_score WHERE judge_score_id = ? ORDER BY position
	`, judgeScoreID)
	if err != nil {
		return nil, fmt.Errorf("query criteria: %w", err)
	}
	defer rows.Close()

	var criteria []model.CriterionScore
	for rows.Next() {
		var c model.CriterionScore
		if err := rows.Scan(&c.Title, &c.Score, &c.MaxScore); err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		criteria = append(criteria, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate criteria: %w", err)
	}
	return criteria, nil
}

func (s *SQLStore) PutHackathon(ctx context.Context, h model.Hackathon) error {
	var first, second, third, part sql.NullString
	if h.Prizes != nil {
		first = sql.NullString{String: h.Prizes.First, Valid: h.Prizes.First != ""}
		second = sql.NullString{String: h.Prizes.Second, Valid: h.Prizes.Second != ""}
		third = sql.NullString{String: h.Prizes.Third, Valid: h.Prizes.Third != ""}
		part = sql.NullString{String: h.Prizes.Participant, Valid: h.Prizes.Participant != ""}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hackathon (id, title, results_date, first_prize, second_prize, third_prize, participant_prize)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			results_date = excluded.results_date,
			first_prize = excluded.first_prize,
			second_prize = excluded.second_prize,
			third_prize = excluded.third_prize,
			participant_prize = excluded.participant_prize
	`, h.ID, h.Title, h.ResultsDate, first, second, third, part)
	if err != nil {
		return fmt.Errorf("put hackathon: %w", err)
	}
	return nil
}

func (s *SQLStore) PutProject(ctx context.Context, p model.Project) error {
	if _, err := s.Hackathon(ctx, p.HackathonID); err != nil {
		return err
	}
	if p.DisplayName == "" {
		p.DisplayName = model.ResolveDisplayName(p.TeamName, p.Title)
	}
	var techJSON sql.NullString
	if len(p.Technologies) > 0 {
		b, err := json.Marshal(p.Technologies)
		if err != nil {
			return fmt.Errorf("encode technologies: %w", err)
		}
		techJSON = sql.NullString{String: string(b), Valid: true}
	}
	var finalScore sql.NullFloat64
	if p.FinalScore != nil {
		finalScore = sql.NullFloat64{Float64: *p.FinalScore, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project (id, hackathon_id, title, description, team_name, display_name, technologies, final_score, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM project WHERE hackathon_id = ?))
		ON CONFLICT(hackathon_id, id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			team_name = excluded.team_name,
			display_name = excluded.display_name,
			technologies = excluded.technologies,
			final_score = excluded.final_score
	`, p.ID, p.HackathonID, p.Title, p.Description, p.TeamName, p.DisplayName, techJSON, finalScore, p.HackathonID)
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func (s *SQLStore) AppendScore(ctx context.Context, hackathonID, projectID string, score model.JudgeScore) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM project WHERE hackathon_id = ? AND id = ?
	`, hackathonID, projectID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("project %q: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query project: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total sql.NullFloat64
	if score.TotalScore != nil {
		total = sql.NullFloat64{Float64: *score.TotalScore, Valid: true}
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO judge_score (hackathon_id, project_id, judge_id, total_score, submitted_at, feedback)
		VALUES (?, ?, ?, ?, ?, ?)
	`, hackathonID, projectID, score.JudgeID, total, score.SubmittedAt, score.Feedback)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	judgeScoreID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("score id: %w", err)
	}
	for i, c := range score.Criteria {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO criterion_score (judge_score_id, position, title, score, max_score)
			VALUES (?, ?, ?, ?, ?)
		`, judgeScoreID, i, c.Title, c.Score, c.MaxScore); err != nil {
			return fmt.Errorf("insert criterion: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score: %w", err)
	}
	return nil
}

func (s *SQLStore) Counts(ctx context.Context) (int, int) {
	var hackathons, projects int
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hackathon`).Scan(&hackathons)
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project`).Scan(&projects)
	return hackathons, projects
}

func (s *SQLStore) Close() error { return s.db.Close() }
