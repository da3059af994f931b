package certification

import "github.com/jhoicas/facturation-ci/internal/domain/entity"

// CanCertify rechaza localmente un documento ya certificado, sin llamar a la FNE.
// Los estados pending y failed admiten un (nuevo) intento.
func CanCertify(code string, c entity.Certification) error {
	if c.IsCertified() {
		return AlreadyCertified(code)
	}
	return nil
}
