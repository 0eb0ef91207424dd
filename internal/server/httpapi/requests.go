package httpapi

import "github.com/dmitrijs2005/gophauth/internal/server/services"

// registerRequest accepts both the current field names and the legacy
// phone/pin/barangay/isSeniorOrPwd names used by older clients.
type registerRequest struct {
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName"`
	LastName      string `json:"lastName"`
	Identity      string `json:"identity"`
	Phone         string `json:"phone"`
	Secret        string `json:"secret"`
	PIN           string `json:"pin"`
	Email         string `json:"email"`
	Locality      string `json:"locality"`
	Barangay      string `json:"barangay"`
	Birthdate     string `json:"birthdate"`
	Sex           string `json:"sex"`
	IsSenior      bool   `json:"isSenior"`
	IsSeniorOrPwd bool   `json:"isSeniorOrPwd"`
}

func (r registerRequest) input() services.RegisterInput {
	return services.RegisterInput{
		FirstName:  r.FirstName,
		MiddleName: r.MiddleName,
		LastName:   r.LastName,
		Identity:   firstNonEmpty(r.Identity, r.Phone),
		Secret:     firstNonEmpty(r.Secret, r.PIN),
		Email:      r.Email,
		Locality:   firstNonEmpty(r.Locality, r.Barangay),
		Birthdate:  r.Birthdate,
		Sex:        r.Sex,
		IsSenior:   r.IsSenior || r.IsSeniorOrPwd,
	}
}

type loginRequest struct {
	Identity string `json:"identity"`
	Phone    string `json:"phone"`
	Secret   string `json:"secret"`
	PIN      string `json:"pin"`
}

func (r loginRequest) input() services.LoginInput {
	return services.LoginInput{
		Identity: firstNonEmpty(r.Identity, r.Phone),
		Secret:   firstNonEmpty(r.Secret, r.PIN),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
