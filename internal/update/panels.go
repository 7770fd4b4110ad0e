package update

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/views"
)

const maxNotifications = 40

func (m Model) renderCommandPalette() string {
	out := views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
	if out == "" {
		return ""
	}
	if projects := m.registry.Projects(); len(projects) > 0 {
		out += "\nprojects: #" + strings.Join(projects, " #")
	}
	return out
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderAlertPopup() string {
	pending := m.coordinator.Pending()
	if len(pending) == 0 {
		return ""
	}
	return views.RenderAlertPopup(pending[0].Title, len(pending)-1)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

// collectAlerts copies coordinator alerts raised since the last call into the
// notification log.
func (m *Model) collectAlerts() tea.Cmd {
	fresh := 0
	for _, a := range m.coordinator.Alerts() {
		if a.ID <= m.lastAlertID {
			continue
		}
		m.lastAlertID = a.ID
		m.notify("Alert", a.Title, "info")
		m.log.Info("alert", map[string]any{"kind": string(a.Kind), "title": a.Title})
		fresh++
	}
	if fresh == 0 || !m.bell {
		return nil
	}
	return ringBell
}

func ringBell() tea.Msg {
	fmt.Fprint(os.Stderr, "\a")
	return nil
}

func (m Model) ackAlert(all bool) Model {
	if all {
		if n := m.coordinator.AckAll(); n > 0 {
			m.Status = StatusBar{Text: fmt.Sprintf("dismissed %d alert(s)", n)}
		}
		return m
	}
	pending := m.coordinator.Pending()
	if len(pending) > 0 {
		m.coordinator.Ack(pending[0].ID)
	}
	return m
}
