package parking

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// SlotQR serves a PNG QR code encoding the slot identifier for gate
// signage; scanning it tells the attendant app which slot to toggle.
func (h *Handlers) SlotQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := ps.ByName("slotid")
	if slotID == "" {
		http.Error(w, "missing slotid", http.StatusBadRequest)
		return
	}

	payload := fmt.Sprintf("slot|%s|%s", slotID, CategoryOf(slotID))
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
