package bot

const (
	helpCmd         = "     - /help: Display all the commands\n"
	helloCmd        = "     - /hello: Greet a user\n"
	inviteCmd       = "     - /invite @<handleStr>\n"
	hangmanStartCmd = "     - /hangman start: Starts a game of hangman\n"
	hangmanGuessCmd = "     - /guess <letter>: Guesses a letter in the current game of hangman\n"
	hangmanEndCmd   = "     - /hangman end: Ends the current game of hangman\n"

	forChannelOwner    = "🎲 Channel owner commands: \n\n"
	channelOwnerAdd    = "     - /owneradd @<handleStr>: Add a user as a channel owner\n"
	channelOwnerRemove = "     - /ownerremove @<handleStr>: Remove a user as a channel owner\n"

	forAdmin         = "👑 Admin commands: \n\n"
	adminChangePerms = "     - /perms @<handleStr> <1|2>: Change a user's permissions\n"
)

// help tiers
const (
	HelpText             = helpCmd + helloCmd + hangmanStartCmd + hangmanEndCmd + hangmanGuessCmd + inviteCmd + "\n"
	ChannelOwnerHelpText = HelpText + "\n" + forChannelOwner + channelOwnerAdd + channelOwnerRemove + "\n"
	AdminChannelHelpText = ChannelOwnerHelpText + "\n" + forAdmin + adminChangePerms
	AdminDMHelpText      = HelpText + "\n" + forAdmin + adminChangePerms

	HangmanUsage = "Did you mean:\n\n" + hangmanStartCmd + hangmanGuessCmd + hangmanEndCmd
)

const (
	UsageHelp         = "Usage: /help"
	UsageHello        = "Usage: /hello"
	UsageHangmanStart = "Usage: /hangman start"
	UsageHangmanEnd   = "Usage: /hangman end"
	UsageGuess        = "Usage: /guess <letter>"
	UsageInvite       = "Usage: /invite @<handleStr>"
	UsageOwnerAdd     = "Usage: /owneradd @<handleStr>"
	UsageOwnerRemove  = "Usage: /ownerremove @<handleStr>"
	UsagePerms        = "Usage: /perms @<handleStr> <1|2>"

	NoPermission     = "You do not have permission to use this command!"
	ChannelsOnly     = "This command can only be used in channels!"
	InvalidHandle    = "Invalid handle!"
	LastChannelOwner = "There must be at least one channel owner!"
	LastGlobalOwner  = "There must be at least one global owner!"
)
