package progression

import "trivia-quiz-service/internal/domain"

// ApplyTopicStats folds one finished session into a topic's accuracy stats.
// Only non-ranked sessions carry topic stats; the caller enforces that.
func ApplyTopicStats(stats domain.TopicStats, totalQuestions, score int) domain.TopicStats {
	stats.AmountAnswered += totalQuestions
	stats.CorrectAnswers += score
	if stats.AmountAnswered > 0 {
		stats.PercentageCorrect = stats.CorrectAnswers * 100 / stats.AmountAnswered
	} else {
		stats.PercentageCorrect = 0
	}
	return stats
}

// OverallAccuracyPercent computes lifetime accuracy with a zero guard.
func OverallAccuracyPercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(correct) / float64(total) * 100)
}
