package mail

type TriggerEmailData struct {
	Title string
	Body  string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
