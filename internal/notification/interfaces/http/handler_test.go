package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/wyfcoding/storefront/internal/notification/application"
	"github.com/wyfcoding/storefront/internal/notification/domain"
	"github.com/wyfcoding/storefront/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/pkg/db"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	d, err := db.Init(db.Config{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := d.Migrate(&mysql.NotificationModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := application.NewNotificationService(mysql.NewNotificationRepository(d.DB), nil, 30*24*time.Hour)
	r := gin.New()
	NewNotificationHandler(svc, nil).RegisterRoutes(r)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNotificationLifecycle(t *testing.T) {
	g := NewWithT(t)
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/notifications", gin.H{"message": "Big sale", "type": "promotion", "sellerId": "s1"})
	g.Expect(w.Code).To(Equal(http.StatusOK))
	var created domain.Notification
	g.Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
	g.Expect(created.ID).NotTo(BeEmpty())
	g.Expect(created.Read).To(BeFalse())

	w = do(r, http.MethodGet, "/api/notifications/seller/s1", nil)
	g.Expect(w.Code).To(Equal(http.StatusOK))
	var list []domain.Notification
	g.Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
	g.Expect(list).To(HaveLen(1))

	w = do(r, http.MethodPut, "/api/notifications/"+created.ID+"/read", nil)
	g.Expect(w.Code).To(Equal(http.StatusOK))
	var updated domain.Notification
	g.Expect(json.Unmarshal(w.Body.Bytes(), &updated)).To(Succeed())
	g.Expect(updated.Read).To(BeTrue())

	w = do(r, http.MethodGet, "/api/notifications/high-demand", nil)
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(w.Body.String()).To(Equal("[]"))

	w = do(r, http.MethodDelete, "/api/notifications/clear", nil)
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(w.Body.String()).To(ContainSubstring("All notifications cleared"))

	w = do(r, http.MethodGet, "/api/notifications", nil)
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(w.Body.String()).To(Equal("[]"))
}

func TestCreateValidation(t *testing.T) {
	g := NewWithT(t)
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/notifications", gin.H{"message": "x", "type": "unknown"})
	g.Expect(w.Code).To(Equal(http.StatusBadRequest))

	w = do(r, http.MethodPost, "/api/notifications", gin.H{"type": "system"})
	g.Expect(w.Code).To(Equal(http.StatusBadRequest))

	w = do(r, http.MethodPost, "/api/notifications", gin.H{
		"message":    "hot",
		"type":       "high_demand",
		"demandData": gin.H{"salesCount": 7, "timeFrame": "24h"},
	})
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(w.Body.String()).To(ContainSubstring(`"salesCount":7`))
}

func TestMarkReadUnknownIs404(t *testing.T) {
	g := NewWithT(t)
	r := setupRouter(t)

	w := do(r, http.MethodPut, "/api/notifications/does-not-exist/read", nil)
	g.Expect(w.Code).To(Equal(http.StatusNotFound))
}
