package command

// Handlers groups every user command handler
type Handlers struct {
	Register       *RegisterUserHandler
	Login          *LoginUserHandler
	UpdateProfile  *UpdateProfileHandler
	ChangeUsername *ChangeUsernameHandler
	ChangeRole     *ChangeRoleHandler
	ToggleActive   *ToggleActiveHandler
	ApplyDealer    *ApplyDealerHandler
	VerifyDealer   *VerifyDealerHandler
}
