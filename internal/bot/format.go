package bot

import (
	"fmt"
	"strings"

	"bookdiary/internal/models"
)

// formatItem renders a catalog item for a chat message.
func formatItem(item models.CatalogItem) string {
	var sb strings.Builder
	sb.WriteString(item.Title)
	if len(item.Authors) > 0 {
		sb.WriteString("\nby " + strings.Join(item.Authors, ", "))
	}
	if item.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("\n%d pages", item.PageCount))
	}
	if len(item.Categories) > 0 {
		sb.WriteString("\n" + strings.Join(item.Categories, " · "))
	}
	if item.Description != "" {
		sb.WriteString("\n\n" + item.Description)
	}
	return sb.String()
}

// formatSnapshot renders a progress snapshot for a chat message.
func formatSnapshot(s models.ProgressSnapshot) string {
	text := fmt.Sprintf("📊 %d of %d books read (%d%%)\nThis month: %d · This year: %d",
		s.ReadCount, s.Goal, int(s.PercentComplete*100), s.ReadThisMonth, s.ReadThisYear)
	if s.Stale {
		text += "\n⚠️ Showing cached data, storage is unreachable."
	}
	return text
}

// formatEvent renders one reading event, resolving the book title
// through the given index and falling back to the raw ID.
func formatEvent(event models.ReadingEvent, titles map[string]string) string {
	title := titles[event.BookID]
	if title == "" {
		title = event.BookID
	}

	line := fmt.Sprintf("• %s: %s", event.CompletedOn.Format("2006-01-02"), title)
	if event.Rating > 0 {
		line += " " + strings.Repeat("⭐️", event.Rating)
	}
	return line
}
