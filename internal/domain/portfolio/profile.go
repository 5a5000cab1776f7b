package portfolio

type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty" bson:"github,omitempty"`
	Tableau  string `json:"tableau,omitempty" bson:"tableau,omitempty"`
	PowerBI  string `json:"powerbi,omitempty" bson:"powerbi,omitempty"`
}

type Profile struct {
	Name        string      `json:"name" bson:"name"`
	Title       string      `json:"title" bson:"title"`
	Bio         string      `json:"bio,omitempty" bson:"bio,omitempty"`
	Email       string      `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string      `json:"phone,omitempty" bson:"phone,omitempty"`
	AvatarURL   string      `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	AccentColor string      `json:"accentColor,omitempty" bson:"accentColor,omitempty"`
	Links       SocialLinks `json:"links" bson:"links"`
}

const defaultAccentColor = "#3b82f6"

func DefaultProfile() Profile {
	return Profile{
		Name:        "Mohamed Samy",
		Title:       "Data Analyst",
		AccentColor: defaultAccentColor,
	}
}
