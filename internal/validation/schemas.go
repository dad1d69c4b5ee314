package validation

var (
	nameField = Field{
		Name: "name",
		Steps: []Step{
			MinLen(2, "Name must be at least 2 characters long"),
			MaxLen(50, "Name must be less than 50 characters"),
			Trim,
		},
	}

	emailField = Field{
		Name: "email",
		Steps: []Step{
			Email("Please provide a valid email address"),
			LowerCase,
			Trim,
		},
	}
)

// SignupSchema validates POST /auth/signup bodies.
var SignupSchema = &Schema{Fields: []Field{
	nameField,
	emailField,
	{Name: "password", Steps: PasswordStrength()},
}}

// LoginSchema validates POST /auth/login bodies.
var LoginSchema = &Schema{Fields: []Field{
	emailField,
	{Name: "password", Steps: []Step{MinLen(1, "Password is required")}},
}}

// PasswordResetSchema validates POST /auth/password-reset bodies.
var PasswordResetSchema = &Schema{Fields: []Field{
	emailField,
}}

// ProfileUpdateSchema validates PATCH /auth/me bodies.
var ProfileUpdateSchema = &Schema{Fields: []Field{
	nameField,
}}
