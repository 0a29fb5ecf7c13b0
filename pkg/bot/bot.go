// Package bot answers slash commands typed into channels and dms. It never
// fails a request: every problem becomes a reply from the K-24 bot.
package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k24chat/pkg/directory"
	"k24chat/pkg/hangman"
	"k24chat/pkg/models"
)

// Env performs the side effects a command needs. Every method works on the
// workspace being updated.
type Env interface {
	// Post appends a bot authored message to t.
	Post(d *models.Data, t models.Target, text string)
	Invite(d *models.Data, inviterUID, channelID, uid int) error
	AddOwner(d *models.Data, actorUID, channelID, uid int) error
	RemoveOwner(d *models.Data, actorUID, channelID, uid int) error
	SetPermission(d *models.Data, actorUID, uid, permission int) error
}

// Outcome reports follow-up work the caller must do outside the update.
type Outcome struct {
	Command   string
	StartGame bool
}

type call struct {
	env    Env
	d      *models.Data
	uid    int
	target models.Target
	text   string
	handle string
	out    *Outcome
}

func (c *call) reply(text string) { c.env.Post(c.d, c.target, text) }

type command struct {
	name  string
	match func(text string) bool
	run   func(c *call)
}

func exact(s string) func(string) bool    { return func(t string) bool { return t == s } }
func contains(s string) func(string) bool { return func(t string) bool { return strings.Contains(t, s) } }

func usage(msg string) func(c *call) { return func(c *call) { c.reply(msg) } }

var (
	guessPattern       = regexp.MustCompile(`(?i)^/guess\s+([a-zA-Z])$`)
	invitePattern      = regexp.MustCompile(`(?i)^/invite\s+@(\S+)`)
	ownerAddPattern    = regexp.MustCompile(`(?i)^/owneradd\s+@(\S+)`)
	ownerRemovePattern = regexp.MustCompile(`(?i)^/ownerremove\s+@(\S+)`)
	permsPattern       = regexp.MustCompile(`(?i)^/perms\s+@(\S+)\s+([12])$`)
)

// commands are tried in order; exact forms come before their usage fallbacks.
var commands = []command{
	{"help", exact("/help"), runHelp},
	{"help_usage", contains("/help"), usage(UsageHelp)},
	{"hello", exact("/hello"), runHello},
	{"hello_usage", contains("/hello"), usage(UsageHello)},
	{"hangman_start", exact("/hangman start"), runHangmanStart},
	{"hangman_start_usage", contains("/hangman start"), usage(UsageHangmanStart)},
	{"hangman_end", exact("/hangman end"), runHangmanEnd},
	{"hangman_end_usage", contains("/hangman end"), usage(UsageHangmanEnd)},
	{"guess", contains("/guess"), runGuess},
	{"hangman_usage", contains("/hangman"), usage(HangmanUsage)},
	{"invite", contains("/invite"), runInvite},
	{"owneradd", contains("/owneradd"), runOwnerAdd},
	{"ownerremove", contains("/ownerremove"), runOwnerRemove},
	{"perms", contains("/perms"), runPerms},
}

// Dispatch runs the first command matching text sent by uid to target. It
// returns the zero Outcome when text is not a command.
func Dispatch(env Env, d *models.Data, uid int, target models.Target, text string) Outcome {
	var out Outcome
	for _, cmd := range commands {
		if !cmd.match(text) {
			continue
		}
		out.Command = cmd.name
		cmd.run(&call{
			env:    env,
			d:      d,
			uid:    uid,
			target: target,
			text:   text,
			handle: directory.Handle(d, uid),
			out:    &out,
		})
		return out
	}
	return out
}

// HelpFor picks the help text for uid's role in target.
func HelpFor(d *models.Data, uid int, t models.Target) string {
	owner := directory.IsGlobalOwner(d, uid)
	switch {
	case t.IsChannel() && owner:
		return AdminChannelHelpText
	case t.IsDM() && owner:
		return AdminDMHelpText
	case t.IsChannel() && directory.IsChannelOwner(d, uid, t.ChannelID):
		return ChannelOwnerHelpText
	default:
		return HelpText
	}
}

func runHelp(c *call) {
	intro := fmt.Sprintf("Hello @%s! 👋 Here are the commands you can use 🙂\n\n", c.handle)
	c.reply(intro + HelpFor(c.d, c.uid, c.target))
}

func runHello(c *call) {
	c.reply(fmt.Sprintf("Hello, @%s 😀!", c.handle))
}

func runHangmanStart(c *call) {
	if directory.ActiveGame(c.d, c.target) != nil {
		c.reply(hangman.GameAlreadyActive)
		return
	}
	c.out.StartGame = true
}

func runHangmanEnd(c *call) {
	EndGame(c.env, c.d, c.target)
}

func runGuess(c *call) {
	m := guessPattern.FindStringSubmatch(c.text)
	if m == nil {
		c.reply(UsageGuess)
		return
	}
	g := directory.ActiveGame(c.d, c.target)
	if g == nil {
		c.reply(hangman.GameNotActive)
		return
	}
	res := hangman.Guess(g, m[1])
	for _, r := range res.Replies {
		c.reply(r)
	}
	if res.Finished {
		directory.SetActiveGame(c.d, c.target, nil)
	}
}

// InstallGame activates a freshly picked game on t, unless another game got
// there first.
func InstallGame(env Env, d *models.Data, t models.Target, w hangman.Word) (int, bool) {
	if !directory.TargetExists(d, t) {
		return 0, false
	}
	if directory.ActiveGame(d, t) != nil {
		env.Post(d, t, hangman.GameAlreadyActive)
		return 0, false
	}
	gameID := len(d.Games)
	d.Games = append(d.Games, hangman.NewGame(gameID, t, w))
	directory.SetActiveGame(d, t, &gameID)
	env.Post(d, t, hangman.StartMessage(&d.Games[gameID]))
	return gameID, true
}

// EndGame deactivates the game on t.
func EndGame(env Env, d *models.Data, t models.Target) {
	if directory.ActiveGame(d, t) == nil {
		env.Post(d, t, hangman.GameNotActive)
		return
	}
	directory.SetActiveGame(d, t, nil)
	env.Post(d, t, hangman.EndMessage)
}

func runInvite(c *call) {
	m := invitePattern.FindStringSubmatch(c.text)
	if m == nil {
		c.reply(UsageInvite)
		return
	}
	handle := m[1]
	if !c.target.IsChannel() || directory.Channel(c.d, c.target.ChannelID) == nil {
		c.reply(ChannelsOnly)
		return
	}
	uid, ok := directory.UIDFromHandle(c.d, handle)
	if !ok {
		c.reply(InvalidHandle)
		return
	}
	if directory.IsChannelMember(c.d, uid, c.target.ChannelID) {
		c.reply(fmt.Sprintf("@%s is already a member of this channel!", handle))
		return
	}
	if err := c.env.Invite(c.d, c.uid, c.target.ChannelID, uid); err != nil {
		c.reply(err.Error())
	}
}

func runOwnerAdd(c *call)    { ownerChange(c, ownerAddPattern, UsageOwnerAdd, true) }
func runOwnerRemove(c *call) { ownerChange(c, ownerRemovePattern, UsageOwnerRemove, false) }

func ownerChange(c *call, pattern *regexp.Regexp, usageMsg string, add bool) {
	m := pattern.FindStringSubmatch(c.text)
	if m == nil {
		c.reply(usageMsg)
		return
	}
	if c.target.IsChannel() && !directory.HasChannelOwnerPermissions(c.d, c.uid, c.target.ChannelID) {
		c.reply(NoPermission)
		return
	}
	handle := m[1]
	ch := directory.Channel(c.d, c.target.ChannelID)
	if !c.target.IsChannel() || ch == nil {
		c.reply(ChannelsOnly)
		return
	}
	uid, ok := directory.UIDFromHandle(c.d, handle)
	if !ok {
		c.reply(InvalidHandle)
		return
	}
	isOwner := directory.IsChannelOwner(c.d, uid, ch.ChannelID)
	if add {
		if isOwner {
			c.reply(fmt.Sprintf("@%s is already an owner of this channel!", handle))
			return
		}
		if err := c.env.AddOwner(c.d, c.uid, ch.ChannelID, uid); err != nil {
			c.reply(err.Error())
			return
		}
		c.reply(fmt.Sprintf("@%s has been added as an owner!", handle))
		return
	}
	if !isOwner {
		c.reply(fmt.Sprintf("@%s is not an owner of this channel!", handle))
		return
	}
	if len(ch.OwnerMembers) == 1 {
		c.reply(LastChannelOwner)
		return
	}
	if err := c.env.RemoveOwner(c.d, c.uid, ch.ChannelID, uid); err != nil {
		c.reply(err.Error())
		return
	}
	c.reply(fmt.Sprintf("@%s has been removed as an owner!", handle))
}

func runPerms(c *call) {
	m := permsPattern.FindStringSubmatch(c.text)
	if m == nil {
		c.reply(UsagePerms)
		return
	}
	if !directory.IsGlobalOwner(c.d, c.uid) {
		c.reply(NoPermission)
		return
	}
	handle := m[1]
	perm, _ := strconv.Atoi(m[2])
	uid, ok := directory.UIDFromHandle(c.d, handle)
	if !ok {
		c.reply(InvalidHandle)
		return
	}
	if directory.GlobalOwnerCount(c.d) == 1 && directory.IsGlobalOwner(c.d, uid) {
		c.reply(LastGlobalOwner)
		return
	}
	if directory.ActiveUser(c.d, uid).Permission == perm {
		c.reply(fmt.Sprintf("@%s already has this permission!", handle))
		return
	}
	if err := c.env.SetPermission(c.d, c.uid, uid, perm); err != nil {
		c.reply(err.Error())
		return
	}
	c.reply(fmt.Sprintf("@%s has been given permission %d!", handle, perm))
}
