package vnpay

// ResponseCodeSuccess is the only vnp_ResponseCode that settles an order as
// paid.
const ResponseCodeSuccess = "00"

// responseMessages maps the gateway's documented response codes to readable
// messages for error payloads.
var responseMessages = map[string]string{
	"00": "Giao dich thanh cong",
	"07": "Tru tien thanh cong, giao dich bi nghi ngo",
	"09": "The chua dang ky InternetBanking",
	"10": "Xac thuc thong tin the sai qua 3 lan",
	"11": "Het han cho thanh toan",
	"12": "The bi khoa",
	"13": "Sai mat khau xac thuc (OTP)",
	"24": "Khach hang huy giao dich",
	"51": "Tai khoan khong du so du",
	"65": "Vuot qua han muc giao dich trong ngay",
	"75": "Ngan hang thanh toan dang bao tri",
	"79": "Sai mat khau thanh toan qua so lan quy dinh",
	"99": "Loi khac",
}

// ResponseMessage returns the text for a gateway response code, or the code
// itself when the code is undocumented.
func ResponseMessage(code string) string {
	if msg, ok := responseMessages[code]; ok {
		return msg
	}
	return "Ma loi " + code
}
