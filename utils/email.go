package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

func SendEmail(to, subject, body string) error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}

// SendEmailBestEffort sends in the background and only logs failures. Used
// for side emails (booking confirmations, completion notices) that must
// never block the primary action.
func SendEmailBestEffort(to, subject, body string) {
	if to == "" {
		return
	}
	go func() {
		if err := SendEmail(to, subject, body); err != nil {
			log.Printf("Failed to send email to %s: %v", to, err)
		}
	}()
}
