package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreatePeriodWithCriteria(ctx context.Context, input PeriodInput, createdBy string) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO evaluation_periods
      (name, period_code, period_type, start_date, end_date,
       self_assessment_deadline, hr_evaluation_deadline, description, guidelines, status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, input.Name, input.PeriodCode, input.PeriodType, input.StartDate, input.EndDate,
		input.SelfAssessmentDeadline, input.HREvaluationDeadline, input.Description, input.Guidelines,
		PeriodStatusDraft, nullIfEmpty(createdBy)).Scan(&id); err != nil {
		return "", err
	}

	for _, indicator := range input.Indicators {
		if _, err := tx.Exec(ctx, `
      INSERT INTO evaluation_criteria (period_id, title, description, type, is_default, order_index)
      VALUES ($1,$2,$3,$4,FALSE,$5)
    `, id, indicator.Title, indicator.Description, CriterionTypeRating, indicator.OrderIndex); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) PeriodByID(ctx context.Context, periodID string) (Period, error) {
	var p Period
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, period_code, period_type, start_date, end_date,
           self_assessment_deadline, hr_evaluation_deadline,
           COALESCE(description,''), COALESCE(guidelines,''), status, COALESCE(created_by::text,''), created_at
    FROM evaluation_periods
    WHERE id = $1
  `, periodID).Scan(&p.ID, &p.Name, &p.PeriodCode, &p.PeriodType, &p.StartDate, &p.EndDate,
		&p.SelfAssessmentDeadline, &p.HREvaluationDeadline, &p.Description, &p.Guidelines,
		&p.Status, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrNotFound
	}
	return p, err
}

func (s *Store) ListPeriods(ctx context.Context, limit, offset int) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, period_code, period_type, start_date, end_date,
           self_assessment_deadline, hr_evaluation_deadline,
           COALESCE(description,''), COALESCE(guidelines,''), status, COALESCE(created_by::text,''), created_at
    FROM evaluation_periods
    ORDER BY start_date DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.Name, &p.PeriodCode, &p.PeriodType, &p.StartDate, &p.EndDate,
			&p.SelfAssessmentDeadline, &p.HREvaluationDeadline, &p.Description, &p.Guidelines,
			&p.Status, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) PeriodCodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM evaluation_periods WHERE period_code = $1", code).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdatePeriod(ctx context.Context, periodID string, input PeriodInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_periods
    SET name = $1, period_code = $2, period_type = $3, start_date = $4, end_date = $5,
        self_assessment_deadline = $6, hr_evaluation_deadline = $7, description = $8, guidelines = $9
    WHERE id = $10
  `, input.Name, input.PeriodCode, input.PeriodType, input.StartDate, input.EndDate,
		input.SelfAssessmentDeadline, input.HREvaluationDeadline, input.Description, input.Guidelines, periodID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeletePeriod(ctx context.Context, periodID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM evaluation_periods WHERE id = $1", periodID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdatePeriodStatus(ctx context.Context, periodID, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE evaluation_periods SET status = $1 WHERE id = $2", status, periodID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateCriterion(ctx context.Context, periodID string, input CriterionInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluation_criteria (period_id, title, description, type, is_default, order_index)
    VALUES ($1,$2,$3,$4,FALSE,$5)
    RETURNING id
  `, periodID, input.Title, input.Description, input.Type, input.OrderIndex).Scan(&id)
	return id, err
}

func (s *Store) UpdateCriterion(ctx context.Context, periodID, criterionID string, input CriterionInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_criteria
    SET title = $1, description = $2, type = $3, order_index = $4
    WHERE id = $5 AND period_id = $6
  `, input.Title, input.Description, input.Type, input.OrderIndex, criterionID, periodID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCriterion(ctx context.Context, periodID, criterionID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM evaluation_criteria WHERE id = $1 AND period_id = $2", criterionID, periodID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListCriteria(ctx context.Context, periodID string) ([]Criterion, error) {
	return s.scanCriteria(ctx, `
    SELECT id, period_id, title, COALESCE(description,''), type, is_default, order_index
    FROM evaluation_criteria
    WHERE period_id = $1
    ORDER BY order_index, title
  `, periodID)
}

func (s *Store) ListDefaultCriteria(ctx context.Context) ([]Criterion, error) {
	return s.scanCriteria(ctx, `
    SELECT id, period_id, title, COALESCE(description,''), type, is_default, order_index
    FROM evaluation_criteria
    WHERE period_id IS NULL AND is_default = TRUE
    ORDER BY order_index, title
  `)
}

func (s *Store) scanCriteria(ctx context.Context, query string, args ...any) ([]Criterion, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var criteria []Criterion
	for rows.Next() {
		var c Criterion
		if err := rows.Scan(&c.ID, &c.PeriodID, &c.Title, &c.Description, &c.Type, &c.IsDefault, &c.OrderIndex); err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

func (s *Store) CriterionIDs(ctx context.Context, periodID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id FROM evaluation_criteria
    WHERE period_id = $1
    ORDER BY order_index
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) RosterEmployeeIDs(ctx context.Context, statuses []string) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM employees WHERE status = ANY($1) ORDER BY employee_number", statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FanOutEvaluations creates the per-employee evaluation and its per-criterion
// answers in one transaction. Both inserts upsert on their natural keys, so a
// retry or a backfill never duplicates rows. With activate set the draft→active
// status flip joins the same transaction, so a failed fan-out never leaves an
// active period without evaluations.
func (s *Store) FanOutEvaluations(ctx context.Context, periodID string, employeeIDs, criteriaIDs []string, activate bool) (FanOutResult, error) {
	result := FanOutResult{Employees: len(employeeIDs)}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return FanOutResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if activate {
		tag, err := tx.Exec(ctx, `
      UPDATE evaluation_periods
      SET status = $1, updated_at = now()
      WHERE id = $2 AND status = $3
    `, PeriodStatusActive, periodID, PeriodStatusDraft)
		if err != nil {
			return FanOutResult{}, err
		}
		if tag.RowsAffected() == 0 {
			return FanOutResult{}, ErrPeriodNotDraft
		}
	}

	for _, employeeID := range employeeIDs {
		var evaluationID string
		err := tx.QueryRow(ctx, `
      INSERT INTO employee_evaluations (employee_id, period_id, status)
      VALUES ($1,$2,$3)
      ON CONFLICT (employee_id, period_id) DO NOTHING
      RETURNING id
    `, employeeID, periodID, EvaluationStatusPending).Scan(&evaluationID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx, `
        SELECT id FROM employee_evaluations WHERE employee_id = $1 AND period_id = $2
      `, employeeID, periodID).Scan(&evaluationID); err != nil {
				return FanOutResult{}, err
			}
		case err != nil:
			return FanOutResult{}, err
		default:
			result.EvaluationsCreated++
		}

		for _, criterionID := range criteriaIDs {
			tag, err := tx.Exec(ctx, `
        INSERT INTO evaluation_answers (employee_evaluation_id, criteria_id)
        VALUES ($1,$2)
        ON CONFLICT (employee_evaluation_id, criteria_id) DO NOTHING
      `, evaluationID, criterionID)
			if err != nil {
				return FanOutResult{}, err
			}
			result.AnswersCreated += int(tag.RowsAffected())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return FanOutResult{}, err
	}
	return result, nil
}

func (s *Store) EvaluationByID(ctx context.Context, evaluationID string) (Evaluation, error) {
	var e Evaluation
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, period_id, status, total_score, COALESCE(grade,''),
           COALESCE(manager_feedback,''), reviewer_id, submitted_at, reviewed_at
    FROM employee_evaluations
    WHERE id = $1
  `, evaluationID).Scan(&e.ID, &e.EmployeeID, &e.PeriodID, &e.Status, &e.TotalScore, &e.Grade,
		&e.ManagerFeedback, &e.ReviewerID, &e.SubmittedAt, &e.ReviewedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Evaluation{}, ErrNotFound
	}
	return e, err
}

func (s *Store) EvaluationContext(ctx context.Context, evaluationID string) (EvaluationContext, error) {
	var ec EvaluationContext
	err := s.DB.QueryRow(ctx, `
    SELECT ee.id, ee.employee_id, ee.period_id, ee.status, ep.status
    FROM employee_evaluations ee
    JOIN evaluation_periods ep ON ee.period_id = ep.id
    WHERE ee.id = $1
  `, evaluationID).Scan(&ec.ID, &ec.EmployeeID, &ec.PeriodID, &ec.Status, &ec.PeriodStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return EvaluationContext{}, ErrNotFound
	}
	return ec, err
}

func (s *Store) ListEvaluationsByPeriod(ctx context.Context, periodID string) ([]Evaluation, error) {
	return s.scanEvaluations(ctx, `
    SELECT id, employee_id, period_id, status, total_score, COALESCE(grade,''),
           COALESCE(manager_feedback,''), reviewer_id, submitted_at, reviewed_at
    FROM employee_evaluations
    WHERE period_id = $1
    ORDER BY created_at
  `, periodID)
}

func (s *Store) ListEvaluationsForEmployee(ctx context.Context, employeeID string) ([]Evaluation, error) {
	return s.scanEvaluations(ctx, `
    SELECT id, employee_id, period_id, status, total_score, COALESCE(grade,''),
           COALESCE(manager_feedback,''), reviewer_id, submitted_at, reviewed_at
    FROM employee_evaluations
    WHERE employee_id = $1
    ORDER BY created_at DESC
  `, employeeID)
}

func (s *Store) scanEvaluations(ctx context.Context, query string, args ...any) ([]Evaluation, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []Evaluation
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.PeriodID, &e.Status, &e.TotalScore, &e.Grade,
			&e.ManagerFeedback, &e.ReviewerID, &e.SubmittedAt, &e.ReviewedAt); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, e)
	}
	return evaluations, rows.Err()
}

func (s *Store) AnswersByEvaluation(ctx context.Context, evaluationID string) ([]Answer, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.employee_evaluation_id, a.criteria_id, a.self_score, COALESCE(a.self_note,''),
           a.hr_score, COALESCE(a.hr_feedback,'')
    FROM evaluation_answers a
    JOIN evaluation_criteria c ON a.criteria_id = c.id
    WHERE a.employee_evaluation_id = $1
    ORDER BY c.order_index
  `, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.ID, &a.EvaluationID, &a.CriteriaID, &a.SelfScore, &a.SelfNote, &a.HRScore, &a.HRFeedback); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *Store) SubmitSelfAssessment(ctx context.Context, evaluationID string, updates []AnswerUpdate, submittedAt time.Time) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, update := range updates {
		if _, err := tx.Exec(ctx, `
      UPDATE evaluation_answers
      SET self_score = $1, self_note = $2
      WHERE id = $3 AND employee_evaluation_id = $4
    `, update.SelfScore, update.SelfNote, update.ID, evaluationID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
    UPDATE employee_evaluations
    SET status = $1, submitted_at = $2
    WHERE id = $3
  `, EvaluationStatusSubmitted, submittedAt, evaluationID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) ReviewEvaluation(ctx context.Context, review ReviewUpdate) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, hr := range review.HRScores {
		if _, err := tx.Exec(ctx, `
      UPDATE evaluation_answers
      SET hr_score = $1, hr_feedback = $2
      WHERE id = $3 AND employee_evaluation_id = $4
    `, hr.Score, hr.Feedback, hr.AnswerID, review.EvaluationID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
    UPDATE employee_evaluations
    SET status = $1, total_score = $2, grade = $3, manager_feedback = $4, reviewer_id = $5, reviewed_at = $6
    WHERE id = $7
  `, EvaluationStatusReviewed, review.TotalScore, review.Grade, review.Feedback,
		review.ReviewerID, review.ReviewedAt, review.EvaluationID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) RequestRevision(ctx context.Context, evaluationID, reviewerID, feedback string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_evaluations
    SET status = $1, manager_feedback = $2, reviewer_id = $3
    WHERE id = $4
  `, EvaluationStatusRevisionRequested, feedback, reviewerID, evaluationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var employeeID string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return employeeID, err
}

func (s *Store) UserIDByEmployeeID(ctx context.Context, employeeID string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(user_id::text, '') FROM employees WHERE id = $1", employeeID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return userID, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
