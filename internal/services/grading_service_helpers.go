package services

import (
	"slices"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// gradeAnswers builds one Answer per submitted pair that names a live question and
// returns them with the accumulated (unrounded) score. Unknown question ids are ignored.
func gradeAnswers(questions []*models.Question, answers map[uint]string) ([]*models.Answer, float64) {
	byID := make(map[uint]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	questionIDs := make([]uint, 0, len(answers))
	for id := range answers {
		questionIDs = append(questionIDs, id)
	}
	slices.Sort(questionIDs)

	graded := make([]*models.Answer, 0, len(questionIDs))
	score := 0.0
	for _, questionID := range questionIDs {
		question, ok := byID[questionID]
		if !ok {
			continue
		}

		selectedID := answers[questionID]
		selected, found := question.OptionByID(selectedID)
		correct, scorable := question.CorrectOption()
		isCorrect := found && scorable && selected.ID == correct.ID

		// ids that match no option are not stored; the answer is simply wrong
		answer := &models.Answer{
			QuestionID: questionID,
			IsCorrect:  isCorrect,
		}
		if found {
			answer.SelectedOptionID = selected.ID
			answer.SelectedOptionText = selected.Text
		}
		graded = append(graded, answer)

		if isCorrect {
			score += question.Marks
		}
	}

	return graded, score
}

// resolveAnswerSelections maps answers to option ids. Text-only answers are matched
// exactly against the live options; the last answer for a question wins.
func resolveAnswerSelections(inputs []AnswerInput, questions []*models.Question) map[uint]string {
	byID := make(map[uint]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	selections := make(map[uint]string, len(inputs))
	for _, in := range inputs {
		if in.SelectedOptionID != "" {
			selections[in.QuestionID] = in.SelectedOptionID
			continue
		}

		selections[in.QuestionID] = ""
		if q, ok := byID[in.QuestionID]; ok {
			if opt, ok := q.OptionByText(in.SelectedOptionText); ok {
				selections[in.QuestionID] = opt.ID
			}
		}
	}
	return selections
}

func (s *gradingService) calculateLetterGrade(percentage float64) string {
	if percentage >= 97 {
		return "A+"
	} else if percentage >= 93 {
		return "A"
	} else if percentage >= 90 {
		return "A-"
	} else if percentage >= 87 {
		return "B+"
	} else if percentage >= 83 {
		return "B"
	} else if percentage >= 80 {
		return "B-"
	} else if percentage >= 77 {
		return "C+"
	} else if percentage >= 73 {
		return "C"
	} else if percentage >= 70 {
		return "C-"
	} else if percentage >= 67 {
		return "D+"
	} else if percentage >= 63 {
		return "D"
	} else if percentage >= 60 {
		return "D-"
	} else {
		return "F"
	}
}
