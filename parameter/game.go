package parameter

// Game Scoring
const (
	// ScoreTimePenalty is subtracted for every executed move
	ScoreTimePenalty = 1

	// ScoreWinBonus is awarded when a walk ends on the goal
	ScoreWinBonus = 500
)
