package hangman

import (
	"fmt"
	"strings"

	"k24chat/pkg/models"
)

// MaxIncorrectGuesses is the budget a game starts with.
const MaxIncorrectGuesses = 7

// Word is a secret word with its dictionary definition.
type Word struct {
	Word       string
	Definition string
}

// MaskedWord renders an unrevealed board: a blank and a separator per letter.
func MaskedWord(word string) string {
	return strings.Repeat("_ ", len(word))
}

// NewGame builds the initial state of a game for target.
func NewGame(gameID int, target models.Target, w Word) models.HangmanGame {
	return models.HangmanGame{
		GameID:      gameID,
		Target:      target,
		Word:        w.Word,
		Definition:  w.Definition,
		MaskedWord:  MaskedWord(w.Word),
		LettersLeft: len(w.Word),
		GuessesLeft: MaxIncorrectGuesses,
		Guesses:     []string{},
		Outcome:     models.OutcomeUndetermined,
	}
}

// StartMessage is posted when a game begins.
func StartMessage(g *models.HangmanGame) string {
	return "\n" + StartBanner + "\n" + Logo + "\n" + "Word:  " + g.MaskedWord + "\n\n" + "Guesses:  "
}

// Result is what a guess produced. Replies are posted in order.
type Result struct {
	Replies  []string
	Finished bool
}

// Guess applies letter to an active game. Letters already guessed leave the
// game untouched.
func Guess(g *models.HangmanGame, letter string) Result {
	letter = strings.ToLower(letter)
	for _, prev := range g.Guesses {
		if prev == letter {
			return Result{Replies: []string{letter + AlreadyGuessed}}
		}
	}
	g.Guesses = append(g.Guesses, letter)

	if strings.Contains(g.Word, letter) {
		reveal(g, letter)
		g.LettersLeft -= strings.Count(g.Word, letter)
		if g.LettersLeft == 0 {
			g.Outcome = models.OutcomeWin
			return Result{Replies: []string{winBoard(g), EndMessage}, Finished: true}
		}
		return Result{Replies: []string{board(g)}}
	}

	g.GuessesLeft--
	if g.GuessesLeft == 0 {
		g.Outcome = models.OutcomeLose
		return Result{Replies: []string{loseBoard(g), EndMessage}, Finished: true}
	}
	return Result{Replies: []string{board(g)}}
}

func reveal(g *models.HangmanGame, letter string) {
	masked := []byte(g.MaskedWord)
	for i := 0; i < len(g.Word); i++ {
		if g.Word[i] == letter[0] && 2*i < len(masked) {
			masked[2*i] = letter[0]
		}
	}
	g.MaskedWord = string(masked)
}

func guessesLine(g *models.HangmanGame) string {
	return "Guesses:  " + strings.Join(g.Guesses, " ")
}

func answerLine(g *models.HangmanGame) string {
	return fmt.Sprintf("↳ ❝ [ %s: %s ] ¡! ❞", g.Word, g.Definition)
}

// board draws the gallows once an incorrect guess has been made.
func board(g *models.HangmanGame) string {
	if g.GuessesLeft == MaxIncorrectGuesses {
		return Logo + "\n" + "Word:  " + g.MaskedWord + "\n\n" + guessesLine(g)
	}
	return Logo + "\n" + Gallows[g.GuessesLeft] + "\n\n\n" + "Word:  " + g.MaskedWord + "\n\n" + guessesLine(g)
}

func winBoard(g *models.HangmanGame) string {
	var head string
	if g.GuessesLeft == MaxIncorrectGuesses {
		head = Logo + "\n"
	} else {
		head = Logo + "\n" + Gallows[g.GuessesLeft] + "\n\n"
	}
	return head + "Word:  " + g.MaskedWord + "\n\n" + guessesLine(g) + "\n\n\n" + GameWin + answerLine(g)
}

func loseBoard(g *models.HangmanGame) string {
	return Logo + "\n" + Gallows[0] + "\n\n" + "Word:  " + g.MaskedWord + "\n\n" + guessesLine(g) +
		"\n\n\n" + GameOver + answerLine(g)
}
