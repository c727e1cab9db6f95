package domain

import "strings"

// NameParts extracts a first/last name pair from federated identity metadata,
// falling back through progressively weaker sources:
//
//  1. structured given/family name fields from the provider payload,
//  2. a single full-name field split on whitespace (first token = first name,
//     the rest joined = last name),
//  3. the local-part of the email address.
//
// Structured fields win even when a full-name field is also present.
func NameParts(metadata map[string]any, email string) (firstName, lastName string) {
	firstName = metadataString(metadata, "given_name", "first_name")
	lastName = metadataString(metadata, "family_name", "last_name")
	if firstName != "" || lastName != "" {
		return firstName, lastName
	}

	if full := metadataString(metadata, "full_name", "name"); full != "" {
		tokens := strings.Fields(full)
		if len(tokens) > 0 {
			firstName = tokens[0]
			lastName = strings.Join(tokens[1:], " ")
			return firstName, lastName
		}
	}

	if at := strings.Index(email, "@"); at > 0 {
		return email[:at], ""
	}
	return "", ""
}

func metadataString(metadata map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := metadata[key].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}
