package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
)

// Namespaces for the monthly counters. Orders and items count
// independently inside the same month.
const (
	NamespaceOrder = "ORD"
	NamespaceItem  = "ITM"
)

// NextOrderCode reserves the next order code (ORDEN{MM}{YY}-{seq:3})
// inside the given transaction, so a rolled-back intake never burns a
// gap into the printed paperwork... it does burn one if a later
// statement fails, which is fine: codes must never be reused, not
// never be skipped.
func NextOrderCode(tx *gorm.DB, now time.Time) (string, error) {
	period, seq, err := nextSeq(tx, NamespaceOrder, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORDEN%s-%03d", period, seq), nil
}

// NextItemCode reserves the next item internal code ({MM}{YY}-{seq:4}).
func NextItemCode(tx *gorm.DB, now time.Time) (string, error) {
	period, seq, err := nextSeq(tx, NamespaceItem, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", period, seq), nil
}

// nextSeq advances the namespace+period counter with a single keyed
// UPDATE seq = seq + 1, so two concurrent intakes can never read the
// same value and write back the same successor. The row lock taken by
// the UPDATE serializes them; the follow-up read sees the
// transaction's own increment.
func nextSeq(tx *gorm.DB, namespace string, now time.Time) (string, int, error) {
	period := now.Format("0106") // MMYY

	res := tx.Model(&models.MonthlyCounter{}).
		Where("namespace = ? AND period = ?", namespace, period).
		UpdateColumn("seq", gorm.Expr("seq + 1"))
	if res.Error != nil {
		return "", 0, res.Error
	}

	if res.RowsAffected == 0 {
		counter := models.MonthlyCounter{Namespace: namespace, Period: period, Seq: 1}
		createErr := tx.Create(&counter).Error
		if createErr == nil {
			return period, 1, nil
		}

		// Another intake inserted the month's row first; increment it
		// instead. The unique namespace+period index guarantees exactly
		// one winner.
		res = tx.Model(&models.MonthlyCounter{}).
			Where("namespace = ? AND period = ?", namespace, period).
			UpdateColumn("seq", gorm.Expr("seq + 1"))
		if res.Error != nil {
			return "", 0, res.Error
		}
		if res.RowsAffected == 0 {
			return "", 0, createErr
		}
	}

	var counter models.MonthlyCounter
	if err := tx.Where("namespace = ? AND period = ?", namespace, period).First(&counter).Error; err != nil {
		return "", 0, err
	}
	return period, counter.Seq, nil
}
