package service

// Тексты ответов навыка. Язык один (en), локализации нет.
const (
	textLaunch            = "Good Evening..., May I know your name ?"
	textLaunchReprompt    = "May I know your name ? "
	textLaunchWithPlayers = "Good Evening..., there %s %d %s in your game. May I know the next name ?"

	textAskNameAgain = "Sorry, I didn't catch your name. May I know your name ?"
	textNameTaken    = "%s is already in the game. May I know your name ?"
	textAskOrder     = "Thank you, %s. Can you please give me your order ?"
	textOrderPrompt  = "Can you please give me your order ?"

	textCompleteHelp = "Here's some things you can say. Tell me your name, give Ann five points, " +
		"tell me the scores, start a new game, and exit."
	textHelpPrompt = " So, how can I help?"
	textNextHelp   = "You can give a player points, add a player, get the current score, or say help. What would you like?"

	textExitNudge = "Okay. Whenever you're ready, you can start giving points to the players in your game."

	textStartFirst     = "There is no game in progress yet. Please start a new game first. May I know your name ?"
	textWhichPlayer    = "Which player should get the points ?"
	textUnknownPlayer  = "Sorry, I couldn't find a player named %s. Which player should get the points ?"
	textAskScore       = "Sorry, how many points should %s get ?"
	textScoreConfirm   = "%d %s for %s. "
	textNoPlayersYet   = "There are no players in the game yet. May I know your name ?"
	textTooManyToList  = "There are %d players in the game. The leaderboard card lists every score."
	textNewGameStarted = "New game started. May I know your name ?"
	textUnknownIntent  = "Sorry, I didn't get that. "
	textAnythingElse   = "Anything else ?"
)
