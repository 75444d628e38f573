package results

var wrongAnswerLines = [...]string{
	"Hmm... that's not it bestie. But we move! 💅",
	"The way you're getting these wrong... giving very much learner's permit energy 😩",
	"Three wrong? You're collecting L's like they're Pokemon cards bestie! 😭",
	"The DMV manual is not a choose-your-own-adventure book! 📚",
	"At this point, you're just guessing based on the vibes... and the vibes are OFF! 🤦‍♀️",
	"You're giving 'I only read the picture captions' energy rn... 👀",
	"The way you're failing... it's giving main character energy, but in a flop era 😔",
	"Bestie did you study this in your dreams? Because you're sleeping on these answers! 😴",
	"Your answers are more random than my Spotify shuffle! 🎵",
	"You're collecting wrong answers like they're limited edition! Make it stop! 😭",
	"The DMV test is not a TikTok challenge bestie... you can't just wing it! 📱",
	"Your test strategy is giving 'close my eyes and hope for the best' 👀",
	"The way you're missing these... it's giving 'I learned driving from GTA' energy 🎮",
	"Bestie, this is a DMV test, not a game of 'Wrong Answers Only'! 🚫",
	"Your wrong answers could fill a whole season of driving fails compilation! 📺",
}

var savageLines = [...]string{
	"At this point, just get a bus pass bestie... 🚌",
	"Your test performance is giving public transportation for life! 🚶‍♂️",
	"The way you're failing... uber drivers are breathing a sigh of relief! 🚗",
	"Walking is underrated anyway bestie! 👟",
	"Bicycle companies LOVE test takers like you! 🚲",
}

const defaultWrongLine = "Oops! That's not correct!"

// WrongAnswerFeedback returns the line shown after the wrongCount-th wrong
// answer. Past the fixed lines it cycles through the savage ones.
func WrongAnswerFeedback(wrongCount int) string {
	switch {
	case wrongCount <= 0:
		return defaultWrongLine
	case wrongCount <= len(wrongAnswerLines):
		return wrongAnswerLines[wrongCount-1]
	default:
		return savageLines[(wrongCount-len(wrongAnswerLines)-1)%len(savageLines)]
	}
}
