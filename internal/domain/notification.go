package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AssignmentCreatedData struct {
	FullName  string `json:"fullName"`
	PlanName  string `json:"planName"`
	DateStart string `json:"dateStart"`
	DateEnd   string `json:"dateEnd"`
}

type AssignmentUpdatedData struct {
	FullName string `json:"fullName"`
	Detail   string `json:"detail"`
}

type CreateWorkerMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}
