package auth

import (
	"log"
	"math/rand"
	"net/smtp"
	"os"
	"strings"
	"time"

	"kerbside/rdx"
)

const otpTTL = 10 * time.Minute

func GenerateOTP(length int) string {
	digits := "0123456789"
	var otp strings.Builder
	for i := 0; i < length; i++ {
		otp.WriteByte(digits[rand.Intn(len(digits))])
	}
	return otp.String()
}

func SendEmailOTP(toEmail, otp string) error {
	from := os.Getenv("SMTP_FROM")
	pass := os.Getenv("SMTP_PASS")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	msg := []byte("Subject: Email Verification\n\nYour OTP is: " + otp)

	auth := smtp.PlainAuth("", from, pass, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{toEmail}, msg)
}

// storeOTP keeps the code and the email it was sent to under an opaque
// handle, so registration can verify both.
func storeOTP(handle, email, otp string) error {
	if err := rdx.SetWithExpiry("otp:"+handle, otp, otpTTL); err != nil {
		return err
	}
	return rdx.SetWithExpiry("otpmail:"+handle, email, otpTTL)
}

// verifyOTP checks the code for a handle and returns the email it was
// issued for.
func verifyOTP(handle, otp string) (string, bool) {
	stored, err := rdx.RdxGet("otp:" + handle)
	if err != nil || stored != otp {
		return "", false
	}
	email, err := rdx.RdxGet("otpmail:" + handle)
	if err != nil {
		return "", false
	}
	return email, true
}

func clearOTP(handle string) {
	if err := rdx.RdxDel("otp:" + handle); err != nil {
		log.Printf("OTP cleanup failed: %v", err)
	}
	if err := rdx.RdxDel("otpmail:" + handle); err != nil {
		log.Printf("OTP cleanup failed: %v", err)
	}
}
