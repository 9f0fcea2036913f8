package users

// Serialize builds the external representation of u. The password hash is
// never copied, whoever asks.
func Serialize(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// SerializeAll serializes a list, returning an empty (non-nil) slice for no users
// so the JSON body is [] rather than null.
func SerializeAll(list []User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, Serialize(&list[i]))
	}
	return out
}
