package changelog

// ResolveCredits converts commit authors into renderable credits. Authors
// known to the hosting platform are credited by handle and profile link;
// anyone else falls back to their git identity with a mailto link, so every
// author stays attributable.
func ResolveCredits(authors []Author) []Credit {
	credits := make([]Credit, 0, len(authors))
	for _, a := range authors {
		switch {
		case a.Login != "":
			credits = append(credits, Credit{DisplayName: "@" + a.Login, ProfileURL: a.ProfileURL})
		case a.Name != "":
			credits = append(credits, Credit{DisplayName: a.Name, ProfileURL: mailto(a.Email)})
		case a.Email != "":
			credits = append(credits, Credit{DisplayName: a.Email, ProfileURL: mailto(a.Email)})
		}
	}
	return credits
}

func mailto(email string) string {
	if email == "" {
		return ""
	}
	return "mailto:" + email
}
