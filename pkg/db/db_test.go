package db

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type widget struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func TestInitSQLiteAndWithTx(t *testing.T) {
	g := NewWithT(t)

	d, err := Init(Config{Driver: "sqlite", DSN: ":memory:"})
	g.Expect(err).NotTo(HaveOccurred())
	t.Cleanup(func() { _ = d.Close() })
	g.Expect(d.AutoMigrate(&widget{})).To(Succeed())

	ctx := context.Background()
	g.Expect(d.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&widget{ID: "w1", Name: "kept"}).Error
	})).To(Succeed())

	boom := errors.New("boom")
	err = d.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&widget{ID: "w2", Name: "rolled back"}).Error; err != nil {
			return err
		}
		return boom
	})
	g.Expect(err).To(MatchError(boom))

	var count int64
	g.Expect(d.Model(&widget{}).Count(&count).Error).To(Succeed())
	g.Expect(count).To(BeEquivalentTo(1))
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	g := NewWithT(t)
	_, err := Init(Config{Driver: "oracle", DSN: "x"})
	g.Expect(err).To(MatchError(ContainSubstring("unsupported database driver")))
}

func TestMigrateKeepsEqualityCaseSensitive(t *testing.T) {
	g := NewWithT(t)

	d, err := Init(Config{Driver: "sqlite", DSN: ":memory:"})
	g.Expect(err).NotTo(HaveOccurred())
	t.Cleanup(func() { _ = d.Close() })
	g.Expect(d.Migrate(&widget{})).To(Succeed())
	g.Expect(d.Create(&widget{ID: "w1", Name: "electronic"}).Error).To(Succeed())

	var count int64
	g.Expect(d.Model(&widget{}).Where("name = ?", "Electronic").Count(&count).Error).To(Succeed())
	g.Expect(count).To(BeZero())
	g.Expect(d.Model(&widget{}).Where("name = ?", "electronic").Count(&count).Error).To(Succeed())
	g.Expect(count).To(BeEquivalentTo(1))
}

func TestTableOptionsUseBinaryCollationOnMySQL(t *testing.T) {
	g := NewWithT(t)
	g.Expect(tableOptions("mysql")).To(ContainSubstring("COLLATE=utf8mb4_bin"))
	g.Expect(tableOptions("postgres")).To(BeEmpty())
	g.Expect(tableOptions("sqlite")).To(BeEmpty())
}
