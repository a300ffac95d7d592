package core

// prompts.go holds the user-facing strings shown by the portal.  Keeping them
// in one place makes them easy to tweak without touching the handlers.

const (
	// PromptLoginFirst is shown when an authenticated action is attempted
	// before login.
	PromptLoginFirst = "Please log in first!"

	// PromptFillRequired is shown when a required form field is empty.
	PromptFillRequired = "Please fill all required fields."

	// PromptAgeNumeric is shown when the age field does not parse as a
	// positive whole number.
	PromptAgeNumeric = "Age must be a positive whole number."

	// PromptSelectFile is shown when a report upload has no file attached.
	PromptSelectFile = "Please select a file."

	// PromptSessionExpired is shown when a fragment request arrives for a
	// page session that no longer exists.  Reloading starts over.
	PromptSessionExpired = "Your page session has expired. Please reload the page."

	// PromptDoctorOnly is shown when a doctor action is attempted from a
	// patient account.
	PromptDoctorOnly = "This action is only available to doctors."

	// PromptInvalidPatient is shown when a patient reference is not a
	// positive whole number.
	PromptInvalidPatient = "Invalid patient ID."

	// PromptFeedbackTarget is shown when feedback names no valid log.
	PromptFeedbackTarget = "Feedback needs a symptom or report log ID."

	// PromptAlreadyLoggedIn is shown when a page that is already logged in
	// submits the login form again.  Switching accounts needs a reload.
	PromptAlreadyLoggedIn = "You are already logged in. Reload the page to switch accounts."

	// PromptFileTooLarge is shown when an upload exceeds the body limit.
	PromptFileTooLarge = "The selected file is too large."

	// NoticeAccountCreated confirms a signup.  Signup never logs in.
	NoticeAccountCreated = "Account created! Please log in."

	// NoticeLoggedIn confirms a login.  The argument is the decoded role.
	NoticeLoggedIn = "Logged in as %s. Loading your dashboard..."

	// NoticePatientAdded confirms a new record with its name and ID.
	NoticePatientAdded = "Patient added: %s (ID: %d)"

	// NoticeFeedbackSent confirms stored feedback.
	NoticeFeedbackSent = "Thanks! Feedback #%d recorded."

	// StatusConnected and StatusUnreachable describe the backend health.
	StatusConnected   = "Status: %s"
	StatusUnreachable = "Status: Backend not reachable"

	// EmptyPatients is rendered instead of an empty patient list.
	EmptyPatients = "No patients found."

	// EmptyOwnProfile is rendered when a patient account has no profile yet.
	EmptyOwnProfile = "No patient profile found. Create one!"

	// ChatFallback replaces an empty assistant reply.
	ChatFallback = "I'm experiencing technical difficulties. For health concerns, please consult a doctor directly."
)
