package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/Rothin8/smart-study-ai-solution/app/repository"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/session"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/storage"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

// avatarStore is nil when S3 uploads are disabled; the profile page then
// hides the upload form.
var avatarStore *storage.AvatarStore

// SetAvatarStore wires the avatar uploader. Called once at startup.
func SetAvatarStore(s *storage.AvatarStore) {
	avatarStore = s
}

var profileSubService *subscription.Service

// SetProfileSubscriptionService wires the subscription service used by the
// profile page.
func SetProfileSubscriptionService(s *subscription.Service) {
	profileSubService = s
}

// HandleUserProfile renders the profile page with subscription status and
// order history.
func HandleUserProfile(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(uc.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("user not found")
	}

	orders, err := repos.Order.GetByUserID(uc.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load orders")
	}

	var status subscription.Status
	if profileSubService != nil {
		if s, rerr := profileSubService.Resolve(c.Context(), uc.UserID); rerr == nil {
			status = s
		}
	}

	return render(c, "user/profile", fiber.Map{
		"Title":         "Profile | Smart Study AI Solution",
		"Profile":       user,
		"Orders":        orders,
		"Subscription":  status,
		"AvatarUploads": avatarStore != nil,
	})
}

// HandleUserProfileUpdate updates the display name.
func HandleUserProfileUpdate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	fm := fiber.Map{
		"type": "error",
	}

	user, err := repos.User.GetByID(uc.UserID)
	if err != nil {
		fm["message"] = "user not found"

		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	name := c.FormValue("name")
	if len(name) < 2 {
		fm["message"] = "Name must be at least 2 characters"

		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	user.Name = name
	if err := repos.User.Update(user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	// Keep the session copy of the name in sync.
	_ = session.SetSessionValue(c, USER_NAME, name)

	fm = fiber.Map{
		"type":    "success",
		"message": "Profile updated.",
	}

	return flash.WithSuccess(c, fm).Redirect("/user/profile")
}

// HandleUserAvatarUpload accepts an image file and stores the processed
// avatar in object storage.
func HandleUserAvatarUpload(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	fm := fiber.Map{
		"type": "error",
	}

	if avatarStore == nil {
		fm["message"] = "Avatar uploads are not available"

		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		fm["message"] = "Please choose an image file"

		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	file, err := fileHeader.Open()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/user/profile")
	}
	defer file.Close()

	url, err := avatarStore.UploadAvatar(c.Context(), uc.UserID, file)
	if err != nil {
		fm["message"] = "The image could not be processed"

		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(uc.UserID)
	if err == nil {
		user.AvatarURL = url
		_ = repos.User.Update(user)
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Avatar updated.",
	}

	return flash.WithSuccess(c, fm).Redirect("/user/profile")
}
