// Package questionnaire holds the BFI-44 statements and the per-respondent traversal state.
package questionnaire

// Statements are the 44 BFI items; Statements[i] is item i+1.
var Statements = []string{
	"Is talkative", "Tends to find fault with others", "Does a thorough job",
	"Is depressed, blue", "Is original, comes up with new ideas", "Is reserved",
	"Is helpful and unselfish with others", "Can be somewhat careless",
	"Is relaxed, handles stress well", "Is curious about many different things",
	"Is full of energy", "Starts quarrels with others", "Is a reliable worker",
	"Can be tense", "Is ingenious, a deep thinker", "Generates a lot of enthusiasm",
	"Has a forgiving nature", "Tends to be disorganized", "Worries a lot",
	"Has an active imagination", "Tends to be quiet", "Is generally trusting",
	"Tends to be lazy", "Is emotionally stable, not easily upset", "Is inventive",
	"Has an assertive personality", "Can be cold and aloof", "Perseveres until the task is finished",
	"Can be moody", "Values artistic, aesthetic experiences", "Is sometimes shy, inhibited",
	"Is considerate and kind to almost everyone", "Does things efficiently",
	"Remains calm in tense situations", "Prefers work that is routine", "Is outgoing, sociable",
	"Is sometimes rude to others", "Makes plans and follows through with them", "Gets nervous easily",
	"Likes to reflect, play with ideas", "Has few artistic interests", "Likes to cooperate with others",
	"Is easily distracted", "Is sophisticated in art, music, or literature",
}

// Options are the Likert labels; Options[v-1] describes raw value v.
var Options = []string{
	"Disagree Strongly",
	"Disagree a Little",
	"Neither Agree nor Disagree",
	"Agree a Little",
	"Agree Strongly",
}

// Question is what a client needs to render one step.
type Question struct {
	Item      int      `json:"item"`
	Total     int      `json:"total"`
	Statement string   `json:"statement"`
	Options   []string `json:"options"`
	Progress  float64  `json:"progress"`
}

// QuestionAt returns the question for a zero-based step.
func QuestionAt(step int) (Question, bool) {
	if step < 0 || step >= len(Statements) {
		return Question{}, false
	}
	return Question{
		Item:      step + 1,
		Total:     len(Statements),
		Statement: Statements[step],
		Options:   Options,
		Progress:  float64(step) / float64(len(Statements)),
	}, true
}
