package model

// XWTFile represents .xwt file structure
type XWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted wallet data
type WalletData struct {
	Seed      string `json:"seed"` // XRPL family seed (sEd...)
	CreatedAt string `json:"createdAt"`
}
