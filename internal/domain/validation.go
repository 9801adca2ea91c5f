package domain

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
)

const (
	passwordSpecials    = "@$!%*?&"
	msgPasswordStrength = "Password must contain at least one uppercase letter, one number, and one special character"
	msgRole             = "Role must be one of GUEST, USER, ADMIN"

	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

var passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)

// userFields is the validated shape of a user after defaults and partial updates are applied.
type userFields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	checkPassword bool
}

func (f userFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("Name is required")),
		validation.Field(&f.Email,
			validation.Required.Error("Email is required"),
			is.EmailFormat.Error("Email must be valid"),
		),
		validation.Field(&f.Password, validation.When(f.checkPassword,
			validation.Required.Error("Password is required"),
			validation.RuneLength(6, 0).Error("Password must be at least 6 characters"),
			validation.Length(0, maxPasswordBytes).Error("Password must be at most 72 characters"),
			validation.By(strongPassword),
		)),
		validation.Field(&f.Role,
			validation.Required.Error(msgRole),
			validation.In(string(access.RoleGuest), string(access.RoleUser), string(access.RoleAdmin)).Error(msgRole),
		),
	)
}

func strongPassword(value interface{}) error {
	password, _ := value.(string)
	if password == "" {
		return nil
	}
	if !passwordCharset.MatchString(password) ||
		!strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") ||
		!strings.ContainsAny(password, "0123456789") ||
		!strings.ContainsAny(password, passwordSpecials) {
		return errors.New(msgPasswordStrength)
	}
	return nil
}

type workoutPlanFields struct {
	Title       string `json:"title"`
	DurationMin int    `json:"duration"`
}

func (f workoutPlanFields) Validate() error {
	msgDuration := "Duration must be at least 1 minute"
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("Title is required")),
		validation.Field(&f.DurationMin,
			validation.Required.Error(msgDuration),
			validation.Min(1).Error(msgDuration),
		),
	)
}

type activityLogFields struct {
	ActivityType   string `json:"activityType"`
	CaloriesBurned int    `json:"caloriesBurned"`
	DurationMin    int    `json:"duration"`
}

func (f activityLogFields) Validate() error {
	msgCalories := "Calories burned must be greater than 0"
	msgDuration := "Duration must be greater than 0"
	return validation.ValidateStruct(&f,
		validation.Field(&f.ActivityType,
			validation.Required.Error("Activity type is required"),
			validation.RuneLength(3, 50).Error("Activity type must be between 3 and 50 characters"),
		),
		validation.Field(&f.CaloriesBurned,
			validation.Required.Error(msgCalories),
			validation.Min(1).Error(msgCalories),
		),
		validation.Field(&f.DurationMin,
			validation.Required.Error(msgDuration),
			validation.Min(1).Error(msgDuration),
		),
	)
}
