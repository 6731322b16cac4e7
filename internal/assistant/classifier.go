package assistant

// Class is the classifier's verdict on an utterance.
type Class string

const (
	ClassCommand  Class = "command"
	ClassQuestion Class = "question"
)

// Classifier separates actionable commands from questions. It is immutable
// after construction and safe for concurrent use.
type Classifier struct {
	rules *compiledRules
}

func NewClassifier(rules *Rules) *Classifier {
	return &Classifier{rules: rules.compiled}
}

// Classify applies, in order: question vocabulary, command vocabulary, money
// amount, and defaults to a question.
func (c *Classifier) Classify(text string) Class {
	u := newUtterance(text)
	switch {
	case u.hasAny(c.rules.question):
		return ClassQuestion
	case u.hasAny(c.rules.command):
		return ClassCommand
	case hasAmount(u.norm):
		return ClassCommand
	default:
		return ClassQuestion
	}
}
