// Package codesign signs macOS bundles recursively ("deep signing") with a
// single identity.
//
// It behaves like `codesign --deep -fs` but copes with bundles that the
// platform tool mishandles: bundles without Contents, frameworks without a
// Versions/Current link, Versions directories inside Contents, and code
// tucked away in unrecognized subdirectories. The actual signing is done by
// a Signer, normally codesign(1).
//
// # Basic Usage
//
//	signer, err := codesign.NewDeepSigner(codesign.Options{
//	    Identity: "-", // ad-hoc
//	    Signer:   &codesign.CommandSigner{},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = signer.SignPath("MyApp.app")
//
// # Signing Order
//
// Inside each directory level, the locations in SigningLocations are
// scanned in order. Bundles found there are signed (recursively) before
// executables, and every bundle is signed last, after its contents. Every
// directory under Versions is signed, not just Current.
//
// Use Plan to see the order without signing anything.
package codesign
