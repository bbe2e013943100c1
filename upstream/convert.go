package upstream

import (
	"time"

	"github.com/lumosdigital/backoffice/models"
)

// The upstream API is Mongo-backed and reports ids as "_id"; some
// deployments report "id". Converters prefer "_id" and fall back.

func (r productRecord) toProduct() models.Product {
	return models.Product{
		ID:         firstNonEmpty(r.MongoID, r.ID),
		Title:      r.Title,
		Content:    r.Content,
		ImageURL:   r.ImageURL,
		PostedDate: r.PostedDate,
		CreatedAt:  parseTime(r.CreatedAt),
		UpdatedAt:  parseTime(r.UpdatedAt),
	}
}

func toProducts(records []productRecord) []models.Product {
	products := make([]models.Product, len(records))
	for i, r := range records {
		products[i] = r.toProduct()
	}
	return products
}

func (r messageRecord) toMessage() models.Message {
	return models.Message{
		ID:             firstNonEmpty(r.MongoID, r.ID),
		ConversationID: r.ConversationID,
		Name:           r.Name,
		Email:          r.Email,
		Message:        r.Message,
		Read:           r.Read,
		CreatedAt:      parseTime(r.CreatedAt),
	}
}

func toMessages(records []messageRecord) []models.Message {
	messages := make([]models.Message, len(records))
	for i, r := range records {
		messages[i] = r.toMessage()
	}
	return messages
}

func (r accountRecord) toAccount() models.Account {
	return models.Account{
		ID:        firstNonEmpty(r.MongoID, r.ID),
		Email:     r.Email,
		Username:  firstNonEmpty(r.Username, r.Name),
		Role:      r.Role,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

func toAccounts(records []accountRecord) []models.Account {
	accounts := make([]models.Account, len(records))
	for i, r := range records {
		accounts[i] = r.toAccount()
	}
	return accounts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTime tolerates missing or non-RFC3339 timestamps; the zero value is
// omitted from JSON by the model tags.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
