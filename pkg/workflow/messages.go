package workflow

const (
	// MembershipFormID is the form whose success message differs from the
	// generic one.
	MembershipFormID = "membership-application"

	MessageMembershipSuccess = "Thank you for your application! You will receive a confirmation email shortly. Our leadership team will review your application and get back to you within 2 weeks."
	MessageSuccess           = "Thank you for your submission!"
	MessageRejected          = "Please correct the errors above and try again."

	// SubmittingLabel replaces the submit control label while a submission
	// is in flight.
	SubmittingLabel = "Submitting..."
)
