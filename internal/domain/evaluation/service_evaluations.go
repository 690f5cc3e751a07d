package evaluation

import (
	"context"
	"strconv"
	"strings"
)

func (s *Service) EvaluationByID(ctx context.Context, evaluationID string) (Evaluation, error) {
	return s.store.EvaluationByID(ctx, evaluationID)
}

func (s *Service) ListEvaluationsByPeriod(ctx context.Context, periodID string) ([]Evaluation, error) {
	return s.store.ListEvaluationsByPeriod(ctx, periodID)
}

func (s *Service) ListEvaluationsForEmployee(ctx context.Context, employeeID string) ([]Evaluation, error) {
	return s.store.ListEvaluationsForEmployee(ctx, employeeID)
}

func (s *Service) AnswersByEvaluation(ctx context.Context, evaluationID string) ([]Answer, error) {
	return s.store.AnswersByEvaluation(ctx, evaluationID)
}

// SubmitSelfAssessment records the employee's self scores and notes and moves
// the evaluation to submitted. Every answer reference is validated against
// the evaluation's own answer set; a foreign or unknown ID fails the whole
// call with a per-item error rather than being skipped.
func (s *Service) SubmitSelfAssessment(ctx context.Context, evaluationID, employeeID string, answers []AnswerSubmission) error {
	ec, err := s.store.EvaluationContext(ctx, evaluationID)
	if err != nil {
		return err
	}
	if ec.EmployeeID != employeeID {
		return ErrForbidden
	}
	if ec.Status == EvaluationStatusReviewed {
		return ErrAlreadyReviewed
	}
	if ec.PeriodStatus == PeriodStatusClosed {
		return ErrPeriodClosed
	}

	owned, err := s.store.AnswersByEvaluation(ctx, evaluationID)
	if err != nil {
		return err
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, a := range owned {
		ownedIDs[a.ID] = true
	}

	verr := &ValidationError{}
	updates := make([]AnswerUpdate, 0, len(answers))
	seen := make(map[string]bool, len(answers))
	for i, answer := range answers {
		field := answerField(i)
		if strings.TrimSpace(answer.ID) == "" {
			verr.add(field+".id", "is required")
			continue
		}
		if !ownedIDs[answer.ID] {
			verr.add(field+".id", "does not belong to this evaluation")
			continue
		}
		if seen[answer.ID] {
			verr.add(field+".id", "is duplicated")
			continue
		}
		seen[answer.ID] = true
		if answer.SelfScore != nil && (*answer.SelfScore < ScoreMin || *answer.SelfScore > ScoreMax) {
			verr.add(field+".selfScore", "must be between 0 and 100")
			continue
		}
		updates = append(updates, AnswerUpdate{ID: answer.ID, SelfScore: answer.SelfScore, SelfNote: answer.SelfNote})
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	return s.store.SubmitSelfAssessment(ctx, evaluationID, updates, s.now())
}

// Approve finalizes a submitted evaluation: the total score and grade are
// computed from its answers and the record becomes reviewed, which is
// terminal.
func (s *Service) Approve(ctx context.Context, evaluationID, reviewerID, feedback string, hrScores []HRScoreInput) (Evaluation, error) {
	ec, err := s.store.EvaluationContext(ctx, evaluationID)
	if err != nil {
		return Evaluation{}, err
	}
	if ec.Status == EvaluationStatusReviewed {
		return Evaluation{}, ErrAlreadyReviewed
	}
	if ec.Status != EvaluationStatusSubmitted {
		return Evaluation{}, ErrNotSubmitted
	}
	if ec.PeriodStatus == PeriodStatusClosed {
		return Evaluation{}, ErrPeriodClosed
	}

	answers, err := s.store.AnswersByEvaluation(ctx, evaluationID)
	if err != nil {
		return Evaluation{}, err
	}

	if err := validateHRScores(answers, hrScores); err != nil {
		return Evaluation{}, err
	}
	if s.useHRScores {
		answers = applyHRScores(answers, hrScores)
	}

	total := ComputeTotalScore(answers, s.useHRScores)
	if total == nil {
		return Evaluation{}, ErrNoScoredAnswers
	}

	review := ReviewUpdate{
		EvaluationID: evaluationID,
		ReviewerID:   reviewerID,
		Feedback:     feedback,
		TotalScore:   *total,
		Grade:        GradeFor(*total),
		ReviewedAt:   s.now(),
		HRScores:     hrScores,
	}
	if err := s.store.ReviewEvaluation(ctx, review); err != nil {
		return Evaluation{}, err
	}
	return s.store.EvaluationByID(ctx, evaluationID)
}

// RequestRevision sends a submitted evaluation back to the employee. The
// record keeps no reviewed_at; resubmission moves it to submitted again.
func (s *Service) RequestRevision(ctx context.Context, evaluationID, reviewerID, feedback string) error {
	ec, err := s.store.EvaluationContext(ctx, evaluationID)
	if err != nil {
		return err
	}
	if ec.Status == EvaluationStatusReviewed {
		return ErrAlreadyReviewed
	}
	if ec.Status != EvaluationStatusSubmitted {
		return ErrNotSubmitted
	}
	if ec.PeriodStatus == PeriodStatusClosed {
		return ErrPeriodClosed
	}
	return s.store.RequestRevision(ctx, evaluationID, reviewerID, feedback)
}

func validateHRScores(answers []Answer, hrScores []HRScoreInput) error {
	if len(hrScores) == 0 {
		return nil
	}
	ownedIDs := make(map[string]bool, len(answers))
	for _, a := range answers {
		ownedIDs[a.ID] = true
	}

	verr := &ValidationError{}
	for i, hr := range hrScores {
		field := "hrScores[" + strconv.Itoa(i) + "]"
		if !ownedIDs[hr.AnswerID] {
			verr.add(field+".answerId", "does not belong to this evaluation")
			continue
		}
		if hr.Score != nil && (*hr.Score < ScoreMin || *hr.Score > ScoreMax) {
			verr.add(field+".score", "must be between 0 and 100")
		}
	}
	return verr.orNil()
}

func applyHRScores(answers []Answer, hrScores []HRScoreInput) []Answer {
	byAnswer := make(map[string]HRScoreInput, len(hrScores))
	for _, hr := range hrScores {
		byAnswer[hr.AnswerID] = hr
	}
	out := make([]Answer, len(answers))
	for i, a := range answers {
		if hr, ok := byAnswer[a.ID]; ok {
			a.HRScore = hr.Score
			a.HRFeedback = hr.Feedback
		}
		out[i] = a
	}
	return out
}

func answerField(index int) string {
	return "answers[" + strconv.Itoa(index) + "]"
}
