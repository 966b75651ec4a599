/*
Package saltyerr defines the error taxonomy shared by the saltybox packages.

Every failure carries a broad Category (User or Internal) and optionally a Kind that callers may branch on.
Kinds are comparable with errors.Is, even through layers of context added with WithContext:

	err := fileops.UpdateFile(plain, crypt, reader)
	if errors.Is(err, saltyerr.AuthenticationFailed) {
		// wrong passphrase or tampered file; crypt is untouched
	}

The printed form of an error is its full chain, outermost message first.
*/
package saltyerr
