package handlers

// User facing texts. Values interpolated into Markdown texts are escaped by the caller.
const (
	txtMaintenance       = "🛠 The bot is under maintenance, please try again later."
	txtStoppedAlert      = "⛔ The bot is currently stopped."
	txtSubscribeStart    = "❌ Sorry, you need to join our channel to access this quiz.\nPlease join and try again."
	txtSubscribeContinue = "❌ Sorry, you need to join our channel to continue this quiz.\nPlease join and try again."
	btnJoinChannel       = "📢 Join channel"

	txtPrivateGranted = "🔑 You were granted private access to quiz: *%s*"
	txtInvalidLink    = "❌ Invalid link."
	txtCapReached     = "❌ Sorry, the maximum number of users for this link is %d and it is full."
	txtNoActive       = "👋 There are no active quizzes right now."
	txtAvailable      = "📚 Available quizzes:"
	txtStartHint      = "Send /start to see the available quizzes."

	txtNoContent     = "⚠️ This quiz has no question files."
	txtNotFound      = "⚠️ This quiz is no longer available."
	txtStale         = "This question was already answered."
	txtGenericError  = "⚠️ Something went wrong, please try again later."
	txtBoundary      = "📦 *The current group is finished.*\nWhat would you like to do?"
	btnEndQuiz       = "❌ End quiz"
	btnContinue      = "➡️ Continue %s"
	txtComplete      = "🎉 *You have finished all questions of the quiz!*"
	txtGroupHeader   = "📂 *Group: %s*\n"
	txtQuestion      = "❓ *Question %d/%d:*\n%s"
	txtFeedback      = "*Previous question:* %s\n%s *Your answer:* %s | *Correct:* %s\n💡 *Explanation:* %s"
	txtNoExplanation = "No explanation"
	txtQuit          = "✅ *Quiz ended.* Thanks for taking part!"
)

// Admin panel.
const (
	txtAdminPanel      = "🛠 *Welcome to the control panel:*\nChoose an option from the menu below:"
	btnCreateQuiz      = "➕ Create quiz"
	btnManageQuizzes   = "⚙️ Manage quizzes"
	btnChannelSettings = "🔧 Channel settings"
	btnBotToggle       = "⚡ Bot on/off"
	btnResetProgress   = "🧹 Reset progress"
	btnBroadcast       = "📧 Broadcast"
	txtCancelled       = "✅ Cancelled."
	txtAdminOnly       = "⛔ Owner only."

	txtAskQuizName = "Send the quiz name:"
	txtQuizCreated = "✅ Quiz created: %s"
	txtNoQuizzes   = "📭 No quizzes yet."
	txtQuizCard    = "📑 *%s*\n📂 Files: %d | ❓ Questions: %d | 👥 Users: %d\nStatus: %s | Max: %s"
	statusActive   = "🟢 active"
	statusHidden   = "🔴 hidden"

	btnUpload      = "➕ Upload file"
	btnFiles       = "📂 Files"
	btnStatus      = "Status: %s"
	btnNewLink     = "🔗 New private link"
	btnMax         = "⚙️ Max %s"
	btnShowUsers   = "👥 Show users"
	btnClearUsers  = "🗑 Clear private list"
	btnDeleteQuiz  = "❌ Delete quiz"
	btnRename      = "✏️ Rename"
	btnYesRemove   = "✅ Yes, remove"
	btnYesDelete   = "✅ Yes, delete quiz"
	btnCancel      = "❌ Cancel"
	btnBack        = "Back"
	btnDeleteGroup = "🗑 Delete %s"

	txtToggled        = "🔄 Visibility updated"
	txtNewLink        = "🔗 New private link:\n`%s`"
	txtLinkGenerated  = "✅ New link generated"
	txtAskMax         = "📝 Send the maximum number of users (0 means unlimited):"
	txtMaxSet         = "✅ Maximum users for the quiz set to %d."
	txtNotANumber     = "❌ Please send a whole number that is 0 or greater."
	txtNoPrivateUsers = "👥 No private users yet."
	txtPrivateUsers   = "📋 Private users:"
	txtConfirmClear   = "⚠️ Are you sure you want to remove all private users of this quiz?"
	txtCleared        = "✅ Private user list cleared."
	txtAskUpload      = "📥 Send the Excel file now:"
	txtExpectFile     = "📥 Please send an .xlsx file, or /cancel."
	txtImported       = "✅ Imported '%s' successfully (%d questions)."
	txtImportFailed   = "❌ Import failed: %s"
	txtFileTooLarge   = "❌ The file is larger than %d MB."
	txtNoGroups       = "📂 This quiz has no files yet."
	txtGroupItem      = "📄 File: %s"
	txtConfirmDelete  = "⚠️ Are you sure you want to delete this quiz entirely?\nAll groups, questions, user progress and private access will be removed."
	txtQuizDeleted    = "✅ The quiz and all its data were deleted."
	txtAskRename      = "✏️ Send the new quiz name:"
	txtRenamed        = "✅ Quiz name updated to: %s"
	txtEmptyName      = "❌ The name cannot be empty."

	txtChannelPanel    = "🔧 *Required channel settings:*\n• Channel ID: %s\n• Channel link: %s\n• Show link to users: %s\n"
	txtNotSet          = "not set"
	txtEnabled         = "enabled ✅"
	txtDisabled        = "disabled ❌"
	btnSetChannelID    = "✏️ Change channel ID"
	btnSetChannelLink  = "🔗 Change channel link"
	btnClearChannel    = "🗑️ Remove channel requirement"
	btnShowLink        = "👁️ Show link: %s"
	txtAskChannelID    = "📝 Send the channel ID (e.g. @my\\_channel or -1001234567890):"
	txtAskChannelLink  = "🔗 Send the channel link (e.g. https://t.me/my\\_channel):"
	txtChannelIDSet    = "✅ Channel ID set to: %s"
	txtChannelLinkSet  = "✅ Channel link set to: %s"
	txtBadLink         = "❌ Please send a valid http(s) link."
	txtChannelCleared  = "✅ Channel subscription requirement removed."
	txtShowLinkChanged = "🔗 Channel link visibility changed to: %s"

	txtBotPanel      = "⚡ *Current bot status:* %s\n\nChoose an action:"
	btnToggleBot     = "🔁 Toggle status"
	txtBotToggled    = "⚡ Bot status changed to: %s"
	txtStatusRunning = "running ✅"
	txtStatusStopped = "stopped ⛔"

	txtProgressCleared = "✅ All user progress records were cleared (%d)."

	txtAskBroadcast       = "📝 Send the text of the message to send to all users."
	txtBroadcastPreview   = "📋 *Message text:*\n\n%s\n\nSend it to all users?"
	btnConfirmSend        = "✅ Confirm sending"
	txtBroadcastMissing   = "❌ Error: message text not found."
	txtSending            = "⏳ Sending... this may take a minute."
	txtBroadcastReport    = "📢 *Broadcast report:*\n\n✅ Delivered to: `%d` users\n💀 Unreachable (two failures in a row): `%d`\n📊 Total users in database: `%d`"
	txtBroadcastCancelled = "❌ Broadcast cancelled."
)
