package api

// Notice is the user-visible outcome of an action.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	noticeSuccess = "success"
	noticeError   = "error"
	noticeInfo    = "info"
)

func successNotice(message string) Notice { return Notice{Kind: noticeSuccess, Message: message} }
func errorNotice(message string) Notice   { return Notice{Kind: noticeError, Message: message} }

func infoNotice(message string) *Notice {
	return &Notice{Kind: noticeInfo, Message: message}
}

const (
	msgContactThanks     = "Thank you for reaching out! I'll get back to you soon."
	msgTestimonialThanks = "Thank you for your testimonial! It will be reviewed soon."
	msgSubmitFailed      = "Error submitting the form. Please try again."

	msgNoTestimonials   = "No testimonials available yet"
	msgNoContacts       = "No contact submissions found"
	msgNoProjects       = "No projects found"
	msgLoadTestimonials = "Error loading testimonials"
	msgLoadContacts     = "Error loading contacts"
	msgLoadProjects     = "Error loading projects"

	msgTestimonialApproved = "Testimonial approved successfully"
	msgTestimonialDeleted  = "Testimonial deleted successfully"
	msgApproveFailed       = "Error approving testimonial"
	msgDeleteTestimonial   = "Error deleting testimonial"
	msgConfirmTestimonial  = "Are you sure you want to delete this testimonial?"

	msgContactDeleted  = "Contact deleted successfully"
	msgDeleteContact   = "Error deleting contact"
	msgConfirmContact  = "Are you sure you want to delete this contact?"
	msgProjectCreated  = "Project created successfully"
	msgProjectUpdated  = "Project updated successfully"
	msgProjectDeleted  = "Project deleted successfully"
	msgSaveProject     = "Error saving project"
	msgDeleteProject   = "Error deleting project"
	msgConfirmProject  = "Are you sure you want to delete this project?"
	msgLoggedIn        = "Logged in successfully"
	msgLoggedOut       = "Logged out successfully"
	msgLoginFailed     = "Invalid email or password"
	msgLogoutFailed    = "Error logging out"
	msgDashboardFailed = "Error loading dashboard"
)
