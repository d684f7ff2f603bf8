package ocr

import "caseflow/internal/domain"

// BuildMethodChain returns the ordered methods to try for a document
// type under the given options. Type-appropriate engines come first;
// the remote fallback is always last. Unknown documents can only go to
// the remote fallback.
func BuildMethodChain(docType domain.DocumentType, opts Options) []domain.OcrMethod {
	var chain []domain.OcrMethod

	switch docType {
	case domain.DocumentTypePDF:
		if opts.EnableNativeText {
			chain = append(chain, domain.MethodNativeText)
		}
		if opts.EnableOpticalRecognition {
			chain = append(chain, domain.MethodOpticalRecog)
		}
		if opts.EnableRemoteFallback {
			chain = append(chain, domain.MethodRemoteFallback)
		}
	case domain.DocumentTypeImage:
		if opts.EnableOpticalRecognition {
			chain = append(chain, domain.MethodOpticalRecog)
		}
		if opts.EnableRemoteFallback {
			chain = append(chain, domain.MethodRemoteFallback)
		}
	default:
		if opts.EnableRemoteFallback {
			chain = append(chain, domain.MethodRemoteFallback)
		}
	}

	return chain
}
