package handler

// --- Request types ---

type registerRequest struct {
	Name                 string `json:"name"                 validate:"required,min=3"`
	Email                string `json:"email"                validate:"required,email"`
	Password             string `json:"password"             validate:"required,min=6,max=16,password"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required"`
	Image                string `json:"image"                validate:"omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	registerRequest
	Role string `json:"role" validate:"omitempty"`
}

type updateUserRequest struct {
	Name                 *string `json:"name"                 validate:"omitempty,min=3"`
	Email                *string `json:"email"                validate:"omitempty,email"`
	Password             *string `json:"password"             validate:"omitempty,min=6,max=16,password"`
	PasswordConfirmation *string `json:"passwordConfirmation" validate:"required_with=Password"`
	Image                *string `json:"image"`
	Role                 *string `json:"role"`
}
