package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/app/repository"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/database"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/mail"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/otp"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/session"
)

// otpSender delivers phone login codes. Injected at startup.
var otpSender otp.Sender

// SetOTPSender wires the SMS sender used by the phone login flow.
func SetOTPSender(s otp.Sender) {
	otpSender = s
}

func loginSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)

	if err := sess.Save(); err != nil {
		return err
	}

	database.GetDB().Model(user).Update("last_login_at", time.Now())
	return nil
}

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		user, err := repository.GetGlobalRepositories().User.GetByEmail(c.FormValue("email"))
		if err != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.CheckPassword(c.FormValue("password")) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.IsActive() {
			fm["message"] = "Please activate your account first. Check your inbox."

			return flash.WithError(c, fm).Redirect("/login")
		}

		if err := loginSession(c, user); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back! Happy studying.",
		}

		return flash.WithSuccess(c, fm).Redirect("/chat")
	}

	return render(c, "auth/login", fiber.Map{
		"Title": "Login | Smart Study AI Solution",
	})
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Bye! See you soon.",
	}

	c.Locals(FROM_PROTECTED, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		users := repository.GetGlobalRepositories().User

		if _, err := users.GetByEmail(c.FormValue("email")); err == nil {
			fm["message"] = "An account with this email already exists"

			return flash.WithError(c, fm).Redirect("/register")
		}

		user, err := models.CreateUser(c.FormValue("name"), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			fm["message"] = "Please check your input and try again"

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := user.GenerateActivationToken(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := users.Create(user); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := mail.SendActivationMail(user.Email, user.Name, user.ActivationToken); err != nil {
			fm["message"] = "Account created, but the activation mail could not be sent. Contact support."

			return flash.WithError(c, fm).Redirect("/login")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Account created! Please check your inbox to activate it.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "auth/register", fiber.Map{
		"Title": "Register | Smart Study AI Solution",
	})
}

// HandleAuthActivate consumes the activation token from the registration
// mail and unlocks the account.
func HandleAuthActivate(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	token := c.Query("token")
	if token == "" {
		fm["message"] = "Missing activation token"

		return flash.WithError(c, fm).Redirect("/login")
	}

	users := repository.GetGlobalRepositories().User
	user, err := users.GetByActivationToken(token)
	if err != nil {
		fm["message"] = "Invalid or already used activation token"

		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := users.Update(user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Your account is active. You can log in now.",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}

// HandleForgotPassword sends the password reset mail. The response does not
// reveal whether the email exists.
func HandleForgotPassword(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		users := repository.GetGlobalRepositories().User

		user, err := users.GetByEmail(c.FormValue("email"))
		if err == nil {
			if terr := user.GeneratePasswordResetToken(); terr == nil {
				if uerr := users.Update(user); uerr == nil {
					_ = mail.SendPasswordResetMail(user.Email, user.Name, user.PasswordResetToken)
				}
			}
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "If the address exists, a reset link is on its way.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "auth/forgot_password", fiber.Map{
		"Title": "Forgot password | Smart Study AI Solution",
	})
}

// HandleResetPassword sets a new password for a valid reset token.
func HandleResetPassword(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		token = c.FormValue("token")
	}

	fm := fiber.Map{
		"type": "error",
	}

	users := repository.GetGlobalRepositories().User
	user, err := users.GetByPasswordResetToken(token)
	if err != nil || !user.IsPasswordResetTokenValid(token) {
		fm["message"] = "Invalid or expired reset link. Please request a new one."

		return flash.WithError(c, fm).Redirect("/forgot-password")
	}

	if c.Method() == fiber.MethodPost {
		password := c.FormValue("password")
		if len(password) < 6 {
			fm["message"] = "Password must be at least 6 characters"

			return flash.WithError(c, fm).Redirect("/reset-password?token=" + token)
		}

		if err := user.SetPassword(password); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}
		user.ClearPasswordResetRequest()

		if err := users.Update(user); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Password changed. You can log in now.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "auth/reset_password", fiber.Map{
		"Title": "Reset password | Smart Study AI Solution",
		"Token": token,
	})
}

// HandleOTPRequest starts the phone login flow: issue a code and text it to
// the number.
func HandleOTPRequest(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return render(c, "auth/otp_request", fiber.Map{
			"Title": "Phone login | Smart Study AI Solution",
		})
	}

	fm := fiber.Map{
		"type": "error",
	}

	phone := c.FormValue("phone")
	if phone == "" {
		fm["message"] = "Phone number is required"

		return flash.WithError(c, fm).Redirect("/login/phone")
	}

	code, err := otp.Issue(phone)
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login/phone")
	}

	if otpSender != nil {
		if err := otpSender.Send(c.Context(), phone, code); err != nil {
			fm["message"] = "The code could not be sent. Please try again."

			return flash.WithError(c, fm).Redirect("/login/phone")
		}
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "We sent you a login code.",
	}

	return flash.WithSuccess(c, fm).Redirect("/login/phone/verify?phone=" + phone)
}

// HandleOTPVerify checks the submitted code and logs the user in, creating
// the account on first sign-in.
func HandleOTPVerify(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		phone = c.FormValue("phone")
	}

	if c.Method() != fiber.MethodPost {
		return render(c, "auth/otp_verify", fiber.Map{
			"Title": "Enter code | Smart Study AI Solution",
			"Phone": phone,
		})
	}

	fm := fiber.Map{
		"type": "error",
	}

	switch err := otp.Verify(phone, c.FormValue("code")); {
	case err == nil:
		// verified
	case errors.Is(err, otp.ErrMismatch):
		fm["message"] = "Wrong code, please try again"

		return flash.WithError(c, fm).Redirect("/login/phone/verify?phone=" + phone)
	case errors.Is(err, otp.ErrTooManyAttempts):
		fm["message"] = "Too many attempts. Please request a new code."

		return flash.WithError(c, fm).Redirect("/login/phone")
	default:
		fm["message"] = "The code expired. Please request a new one."

		return flash.WithError(c, fm).Redirect("/login/phone")
	}

	users := repository.GetGlobalRepositories().User
	user, err := users.GetByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = models.CreatePhoneUser("Student", phone)
		if err == nil {
			err = users.Create(user)
		}
	}
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login/phone")
	}

	if err := loginSession(c, user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login/phone")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "You are logged in. Happy studying!",
	}

	return flash.WithSuccess(c, fm).Redirect("/chat")
}
