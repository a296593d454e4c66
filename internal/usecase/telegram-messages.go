package usecase

import "github.com/iamvkosarev/fintrack/pkg/local"

var (
	MessageServerError = local.NewSet(
		"Something wrong with me. Try later",
		local.NewTrans(local.Rus, "Что-то пошло не так. Попробуйте позже"),
	)
	MessageUserNoAccess = local.NewSet(
		"You are not allowed to use this bot",
		local.NewTrans(local.Rus, "У вас нет доступа к этому боту"),
	)
	MessageCommandStart = local.NewSet(
		"Welcome to FinTrack! Sign in with /login <email> or create an account with /signup <email> <name>, then ask me anything about your finances.",
		local.NewTrans(local.Rus, "Добро пожаловать в FinTrack! Войдите командой /login <email> или зарегистрируйтесь командой /signup <email> <имя>, а затем задайте вопрос о своих финансах."),
	)
	MessageCommandHelp = local.NewSet(
		"/login <email> - sign in\n/signup <email> <name> - create an account\n/logout - sign out\n/toggle - switch between normal and super mode\n/new - start a new conversation\n/prompts - suggested questions",
		local.NewTrans(local.Rus, "/login <email> - войти\n/signup <email> <имя> - зарегистрироваться\n/logout - выйти\n/toggle - переключить обычный и расширенный режим\n/new - начать новый диалог\n/prompts - примеры вопросов"),
	)
	MessageCommandUnknown = local.NewSet(
		"I don't know that command",
		local.NewTrans(local.Rus, "Я не знаю такой команды"),
	)
	MessageLoginUsage = local.NewSet(
		"Usage: /login <email>",
		local.NewTrans(local.Rus, "Использование: /login <email>"),
	)
	MessageSignupUsage = local.NewSet(
		"Usage: /signup <email> <name>",
		local.NewTrans(local.Rus, "Использование: /signup <email> <имя>"),
	)
	MessageSignedInFormat = local.NewSet(
		"Signed in as %s (%s mode)",
		local.NewTrans(local.Rus, "Вы вошли как %s (режим %s)"),
	)
	MessageSignedOut = local.NewSet(
		"Signed out",
		local.NewTrans(local.Rus, "Вы вышли"),
	)
	MessageSignInFirst = local.NewSet(
		"Sign in first with /login <email>",
		local.NewTrans(local.Rus, "Сначала войдите командой /login <email>"),
	)
	MessageRoleSwitchedFormat = local.NewSet(
		"Switched to %s mode",
		local.NewTrans(local.Rus, "Включён режим %s"),
	)
	MessageSelectPrompt = local.NewSet(
		"Try one of these:",
		local.NewTrans(local.Rus, "Попробуйте один из вопросов:"),
	)
)
