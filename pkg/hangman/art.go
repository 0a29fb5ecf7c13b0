package hangman

// Divider separates the final board from its banner.
const Divider = "─── ･ ｡ﾟ☆: *.☽ .* :☆ﾟ. ───"

const (
	GameAlreadyActive = "A game of hangman is already active!\n\n" +
		"Please finish the current game or end the game with /hangman end before starting a new game!"
	GameNotActive = "There is currently no active game of hangman!"

	startMsg = "Starting a game of hangman!\n\n"
	guessMsg = "You can type /guess <letter> to make a guess!\n\n"
	// StartBanner opens every new game.
	StartBanner = startMsg + guessMsg

	EndMessage = "The game of hangman has ended!"
	Logo       = "-ˏˋ 📃 HANGMAN ✏️ ˊˎ-\n\n"

	AlreadyGuessed = " has already been guessed!"

	noMoreGuesses = "You ran out of guesses 😢\n\n"
	GameOver      = Divider + "\n\n\n" + "❗GAME OVER ❗\n\n" + noMoreGuesses
	GameWin       = Divider + "\n\n\n" + "Nice job! 🥳\n\n"
)

const (
	gallows6 = "          + - - - +\n           |        |\n                    |\n" +
		"                    |\n                    |\n                    |\n       ========="
	gallows5 = "          + - - - +\n           |        |\n          O       |\n" +
		"                    |\n                    |\n                    |\n       ========="
	gallows4 = "          + - - - +\n           |        |\n          O       |\n" +
		"           |        |\n                    |\n                    |\n       ========="
	gallows3 = "          + - - - +\n           |        |\n          O       |\n" +
		"          /|        |\n                    |\n                    |\n       ========="
	gallows2 = "          + - - - +\n           |        |\n          O       |\n" +
		"          /|\\       |\n                    |\n                    |\n       ========="
	gallows1 = "          + - - - +\n           |        |\n          O       |\n" +
		"          /|\\       |\n          /         |\n                    |\n       ========="
	gallows0 = "          + - - - +\n           |        |\n          O       |\n" +
		"          /|\\       |\n          / \\       |\n                    |\n       ========="
)

// Gallows is indexed by the number of incorrect guesses left.
var Gallows = [...]string{gallows0, gallows1, gallows2, gallows3, gallows4, gallows5, gallows6}
