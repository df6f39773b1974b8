package memory

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"moderation-console/internal/core/domain"
)

var seedTitles = []string{
	"Смартфон в отличном состоянии",
	"Квартира у метро",
	"Горный велосипед",
	"Ищу разработчика",
	"Ремонт квартир под ключ",
	"Котята британской породы",
	"Зимняя куртка",
	"Детская коляска",
}

var seedSellers = []string{"Иван Смирнов", "Ольга Кузнецова", "Петр Соколов", "Анна Попова", "Дмитрий Лебедев"}

// GenerateAds детерминированно строит n объявлений с id от 1 до n.
// Часть объявлений уже проверена и имеет историю решений.
func GenerateAds(n int, now time.Time, seed int64) []domain.Advertisement {
	rnd := rand.New(rand.NewSource(seed))
	statuses := []domain.AdStatus{domain.StatusPending, domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusDraft}

	ads := make([]domain.Advertisement, 0, n)
	for i := 1; i <= n; i++ {
		categoryID := rnd.Intn(len(domain.Categories))
		createdAt := now.Add(-time.Duration(rnd.Intn(60*24)) * time.Minute).AddDate(0, 0, -rnd.Intn(40))
		status := statuses[rnd.Intn(len(statuses))]
		priority := domain.PriorityNormal
		if rnd.Intn(4) == 0 {
			priority = domain.PriorityUrgent
		}

		ad := domain.Advertisement{
			ID:          int64(i),
			Title:       fmt.Sprintf("%s #%d", seedTitles[categoryID], i),
			Description: fmt.Sprintf("Описание объявления %d. Состояние хорошее, торг уместен.", i),
			Price:       float64(500 + rnd.Intn(200)*250),
			Category:    domain.Categories[categoryID],
			CategoryID:  categoryID,
			Status:      status,
			Priority:    priority,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
			Images: []string{
				fmt.Sprintf("https://placehold.co/600x400?text=Ad+%d-1", i),
				fmt.Sprintf("https://placehold.co/600x400?text=Ad+%d-2", i),
			},
			Characteristics: map[string]string{
				"Состояние": []string{"Новое", "Б/у"}[rnd.Intn(2)],
				"Гарантия":  []string{"Есть", "Нет"}[rnd.Intn(2)],
			},
			Seller: domain.Seller{
				ID:           int64(1000 + rnd.Intn(50)),
				Name:         seedSellers[rnd.Intn(len(seedSellers))],
				Rating:       float64(30+rnd.Intn(21)) / 10,
				TotalAds:     1 + rnd.Intn(40),
				RegisteredAt: createdAt.AddDate(-1-rnd.Intn(4), 0, 0),
			},
		}

		if status != domain.StatusPending {
			ad.ModerationHistory = []domain.ModerationHistoryEntry{seedEntry(i, status, createdAt, now, rnd)}
			ad.UpdatedAt = ad.ModerationHistory[0].Timestamp
		}
		ads = append(ads, ad)
	}
	return ads
}

func seedEntry(i int, status domain.AdStatus, createdAt, now time.Time, rnd *rand.Rand) domain.ModerationHistoryEntry {
	ts := createdAt.Add(time.Duration(5+rnd.Intn(240)) * time.Minute)
	if ts.After(now) {
		ts = now
	}
	entry := domain.ModerationHistoryEntry{
		ID:            seedEntryID(i),
		ModeratorID:   1,
		ModeratorName: "Алексей Петров",
		Timestamp:     ts,
	}
	switch status {
	case domain.StatusApproved:
		entry.Action = domain.HistoryApproved
	case domain.StatusRejected:
		entry.Action = domain.HistoryRejected
		reason := string(domain.RejectionReasons[rnd.Intn(len(domain.RejectionReasons))])
		entry.Reason = &reason
	default:
		entry.Action = domain.HistoryRequestChanges
		reason := string(domain.ReasonInvalidDescription)
		entry.Reason = &reason
	}
	return entry
}

// seedEntryID - стабильный id записи истории: повторный запуск дает те же id.
func seedEntryID(i int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("moderation-seed-%d", i)))
}
