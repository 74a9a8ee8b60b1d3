package staffapp

// Question is one item of the staff aptitude test. Options are answered by
// zero-based index.
type Question struct {
	Number   int      `json:"number"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// answerKey holds the zero-based correct option per question.
var answerKey = []int{1, 1, 1, 2, 1, 1, 1, 1, 1, 1}

// PassPercent is the minimum score percentage for a passing application.
const PassPercent = 70

var questions = []Question{
	{1, "What is the primary goal of a grievance management system?",
		[]string{"To ignore complaints", "To resolve issues efficiently", "To create more problems", "To delay responses"}},
	{2, "How should you prioritize grievances?",
		[]string{"Random order", "By urgency and impact", "Oldest first always", "Newest first always"}},
	{3, "What is the best response time target for urgent issues?",
		[]string{"1 week", "24-48 hours", "1 month", "No target needed"}},
	{4, "How should you communicate with a frustrated user?",
		[]string{"Ignore them", "Be defensive", "Listen empathetically and professionally", "Argue back"}},
	{5, "What should you do if you cannot resolve an issue?",
		[]string{"Close it anyway", "Escalate to appropriate authority", "Delete the complaint", "Blame the user"}},
	{6, "Why is documentation important in grievance handling?",
		[]string{"It's not important", "For accountability and tracking", "To waste time", "To confuse users"}},
	{7, "What is proper follow-up etiquette?",
		[]string{"Never follow up", "Follow up once resolved to ensure satisfaction", "Follow up every hour", "Only if user complains again"}},
	{8, "How should confidential information be handled?",
		[]string{"Share with everyone", "Keep it secure and private", "Post on social media", "Ignore privacy rules"}},
	{9, "What is the correct status flow for a complaint?",
		[]string{"NEW → CLOSED", "NEW → UNDER_REVIEW → RESOLVED → CLOSED", "CLOSED → NEW", "Any order works"}},
	{10, "What attitude should staff maintain?",
		[]string{"Indifferent", "Helpful and solution-oriented", "Rude", "Lazy"}},
}

// Questions returns the test. The answer key is never exposed.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Score counts correct answers. Answers must be validated for length and
// range before calling.
func Score(answers []int) int {
	score := 0
	for i, a := range answers {
		if a == answerKey[i] {
			score++
		}
	}
	return score
}
