package issue

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// Formato de número de solicitud: REQ<YYYYMMDD><secuencia diaria de 3 dígitos>.
// La secuencia arranca en 001 cada día calendario.
const requestNoPrefix = "REQ"

// dailyPrefix devuelve el prefijo del día: REQ20240811.
func dailyPrefix(now time.Time) string {
	return requestNoPrefix + now.Format("20060102")
}

// nextRequestNo lee el mayor número del día e incrementa la secuencia.
// El índice único sobre request_no resuelve el empate entre creaciones
// concurrentes; el caller reintenta la transacción completa ante conflicto.
func nextRequestNo(reqRepo repository.IssueRequestRepository, now time.Time) (string, error) {
	prefix := dailyPrefix(now)
	last, err := reqRepo.LastRequestNo(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if len(last) > len(prefix) {
		// La secuencia es todo lo que sigue al prefijo del día: tres dígitos
		// al arrancar, cuatro o más si el día supera las 999 solicitudes.
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}
