package tutor

var greetingPatterns = []string{"hello", "hi", "hey", "morning", "evening"}

var greetingReplies = []string{
	"Hello! Ready to study?",
	"Hi there! How can I help you learn today?",
	"Greetings! Let's crush some code.",
}

var motivationPatterns = []string{"tired", "bored", "hard", "give up", "motivate"}

var motivationReplies = []string{
	"You got this! Every line of code makes you stronger.",
	"Take a deep breath. You're doing great.",
	"Remember why you started. Keep pushing!",
	"Coding is hard, but so are you.",
}

// concept is a keyword and its explanation. Order matters: the first
// keyword found in the input wins.
type concept struct {
	keyword string
	answer  string
}

var concepts = []concept{
	{"variable", "A variable is like a container for storing data values. In JavaScript, we use let, const, or var."},
	{"loop", "Loops are used to repeat a block of code. Common types are for loops and while loops."},
	{"function", "A function is a block of code designed to perform a particular task. It is executed when 'invoked'."},
	{"array", "An array is a special variable, which can hold more than one value at a time."},
	{"object", "Objects are variables too. But objects can contain many values written as name:value pairs."},
	{"react", "React is a JavaScript library for building user interfaces, maintained by Meta."},
	{"hook", "Hooks are functions that let you 'hook into' React state and lifecycle features from function components."},
	{"motivation", "Make studying fun for yourself. Don't stress, I'm here to help make it more interactive and effective."},
}

const (
	defaultReply = "I'm not sure about that yet. Try asking about variables, loops, or for motivation!"
	startReply   = "Starting the timer. Focus mode on!"
	stopReply    = "Timer paused."
	breakReply   = "Taking a break. You earned it."
	quizReply    = "Opening a quiz. Good luck!"
)

// Topics lists the concept keywords the tutor can explain.
func Topics() []string {
	out := make([]string, len(concepts))
	for i, c := range concepts {
		out[i] = c.keyword
	}
	return out
}
