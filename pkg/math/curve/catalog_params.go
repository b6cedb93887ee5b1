package curve

import (
	"encoding/asn1"

	"github.com/taurusgroup/eccore/pkg/math/fp"
)

// Domain parameters from SEC 2 v1.0. Curve25519 is given in short Weierstrass form,
// isomorphic to the Montgomery curve through x_W = x_M + 486662/3, and has no OID.

type primeEntry struct {
	name      string
	oid       asn1.ObjectIdentifier
	p         string
	reduction fp.Reduction
	a, b      string
	gx, gy    string
	n         string
	h         int64
	modified  bool
}

type binaryEntry struct {
	name    string
	oid     asn1.ObjectIdentifier
	m       int
	ks      []int
	a, b    string
	gx, gy  string
	n       string
	h       int64
	koblitz bool
}

var primeCurves = []primeEntry{
	{
		name:      "secp128r1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 28},
		p:         "FFFFFFFDFFFFFFFFFFFFFFFFFFFFFFFF",
		reduction: fp.Solinas,
		a:         "FFFFFFFDFFFFFFFFFFFFFFFFFFFFFFFC",
		b:         "E87579C11079F43DD824993C2CEE5ED3",
		gx:        "161FF7528B899B2D0C28607CA52C5B86",
		gy:        "CF5AC8395BAFEB13C02DA292DDED7A83",
		n:         "FFFFFFFE0000000075A30D1B9038A115",
		h:         1,
	},
	{
		name:      "secp160k1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 9},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFAC73",
		reduction: fp.Solinas,
		a:         "0",
		b:         "7",
		gx:        "3B4C382CE37AA192A4019E763036F4F5DD4D7EBB",
		gy:        "938CF935318FDCED6BC28286531733C3F03C4FEE",
		n:         "100000000000000000001B8FA16DFAB9ACA16B6B3",
		h:         1,
	},
	{
		name:      "secp160r1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 8},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF7FFFFFFF",
		reduction: fp.Solinas,
		a:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF7FFFFFFC",
		b:         "1C97BEFC54BD7A8B65ACF89F81D4D4ADC565FA45",
		gx:        "4A96B5688EF573284664698968C38BB913CBFC82",
		gy:        "23A628553168947D59DCC912042351377AC5FB32",
		n:         "100000000000000000001F4C8F927AED3CA752257",
		h:         1,
	},
	{
		name:      "secp160r2",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 30},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFAC73",
		reduction: fp.Solinas,
		a:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFAC70",
		b:         "B4E134D3FB59EB8BAB57274904664D5AF50388BA",
		gx:        "52DCB034293A117E1F4FF11B30F7199D3144CE6D",
		gy:        "FEAFFEF2E331F296E071FA0DF9982CFEA7D43F2E",
		n:         "100000000000000000000351EE786A818F3A1A16B",
		h:         1,
	},
	{
		name:      "secp192k1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 31},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFEE37",
		reduction: fp.Solinas,
		a:         "0",
		b:         "3",
		gx:        "DB4FF10EC057E9AE26B07D0280B7F4341DA5D1B1EAE06C7D",
		gy:        "9B2F2F6D9C5628A7844163D015BE86344082AA88D95E2F9D",
		n:         "FFFFFFFFFFFFFFFFFFFFFFFE26F2FC170F69466A74DEFD8D",
		h:         1,
	},
	{
		name:      "secp192r1",
		oid:       asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 1},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFF",
		reduction: fp.Solinas,
		a:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFC",
		b:         "64210519E59C80E70FA7E9AB72243049FEB8DEECC146B9B1",
		gx:        "188DA80EB03090F67CBF20EB43A18800F4FF0AFD82FF1012",
		gy:        "7192B95FFC8DA78631011ED6B24CDD573F977A11E794811",
		n:         "FFFFFFFFFFFFFFFFFFFFFFFF99DEF836146BC9B1B4D22831",
		h:         1,
	},
	{
		name:      "secp224k1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 32},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFE56D",
		reduction: fp.Solinas,
		a:         "0",
		b:         "5",
		gx:        "A1455B334DF099DF30FC28A169A467E9E47075A90F7E650EB6B7A45C",
		gy:        "7E089FED7FBA344282CAFBD6F7E319F7C0B0BD59E2CA4BDB556D61A5",
		n:         "10000000000000000000000000001DCE8D2EC6184CAF0A971769FB1F7",
		h:         1,
	},
	{
		name:      "secp224r1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 33},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF000000000000000000000001",
		reduction: fp.Solinas,
		a:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFE",
		b:         "B4050A850C04B3ABF54132565044B0B7D7BFD8BA270B39432355FFB4",
		gx:        "B70E0CBD6BB4BF7F321390B94A03C1D356C21122343280D6115C1D21",
		gy:        "BD376388B5F723FB4C22DFE6CD4375A05A07476444D5819985007E34",
		n:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFF16A2E0B8F03E13DD29455C5C2A3D",
		h:         1,
	},
	{
		name:      "secp256k1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 10},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F",
		reduction: fp.Solinas,
		a:         "0",
		b:         "7",
		gx:        "79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798",
		gy:        "483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8",
		n:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141",
		h:         1,
	},
	{
		name:      "secp256r1",
		oid:       asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7},
		p:         "FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF",
		reduction: fp.NIST256,
		a:         "FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFC",
		b:         "5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B",
		gx:        "6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296",
		gy:        "4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5",
		n:         "FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551",
		h:         1,
	},
	{
		name:      "secp384r1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 34},
		p:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFF",
		reduction: fp.Solinas,
		a:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFC",
		b:         "B3312FA7E23EE7E4988E056BE3F82D19181D9C6EFE8141120314088F5013875AC656398D8A2ED19D2A85C8EDD3EC2AEF",
		gx:        "AA87CA22BE8B05378EB1C71EF320AD746E1D3B628BA79B9859F741E082542A385502F25DBF55296C3A545E3872760AB7",
		gy:        "3617DE4A96262C6F5D9E98BF9292DC29F8F41DBD289A147CE9DA3113B5F0B8C00A60B1CE1D7E819D7A431D7C90EA0E5F",
		n:         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC7634D81F4372DDF581A0DB248B0A77AECEC196ACCC52973",
		h:         1,
	},
	{
		name:      "secp521r1",
		oid:       asn1.ObjectIdentifier{1, 3, 132, 0, 35},
		p:         "1FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF",
		reduction: fp.Mersenne521,
		a:         "1FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC",
		b:         "51953EB9618E1C9A1F929A21A0B68540EEA2DA725B99B315F3B8B489918EF109E156193951EC7E937B1652C0BD3BB1BF073573DF883D2C34F1EF451FD46B503F00",
		gx:        "C6858E06B70404E9CD9E3ECB662395B4429C648139053FB521F828AF606B4D3DBAA14B5E77EFE75928FE1DC127A2FFA8DE3348B3C1856A429BF97E7E31C2E5BD66",
		gy:        "11839296A789A3BC0045C8A5FB42C7D1BD998F54449579B446817AFBD17273E662C97EE72995EF42640C550B9013FAD0761353C7086A272C24088BE94769FD16650",
		n:         "1FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFA51868783BF2F966B7FCC0148F709A5D03BB5C9B8899C47AEBB6FB71E91386409",
		h:         1,
	},
	{
		name:      "curve25519",
		p:         "7FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFED",
		reduction: fp.Solinas,
		a:         "2AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA984914A144",
		b:         "7B425ED097B425ED097B425ED097B425ED097B425ED097B4260B5E9C7710C864",
		gx:        "2AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAD245A",
		gy:        "20AE19A1B8A086B4E01EDD2C7748D14C923D4D7E6D7C61B229E9C5A27ECED3D9",
		n:         "1000000000000000000000000000000014DEF9DEA2F79CD65812631A5CF5D3ED",
		h:         8,
		modified:  true,
	},
}

var binaryCurves = []binaryEntry{
	{
		name: "sect113r1",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 4},
		m:    113,
		ks:   []int{9},
		a:    "3088250CA6E7C7FE649CE85820F7",
		b:    "E8BEE4D3E2260744188BE0E9C723",
		gx:   "9D73616F35F4AB1407D73562C10F",
		gy:   "A52830277958EE84D1315ED31886",
		n:    "100000000000000D9CCEC8A39E56F",
		h:    2,
	},
	{
		name: "sect113r2",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 5},
		m:    113,
		ks:   []int{9},
		a:    "689918DBEC7E5A0DD6DFC0AA55C7",
		b:    "95E9A9EC9B297BD4BF36E059184F",
		gx:   "1A57A6A7B26CA5EF52FCDB8164797",
		gy:   "B3ADC94ED1FE674C06E695BABA1D",
		n:    "10000000000000108789B2496AF93",
		h:    2,
	},
	{
		name: "sect131r1",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 22},
		m:    131,
		ks:   []int{2, 3, 8},
		a:    "7A11B09A76B562144418FF3FF8C2570B8",
		b:    "217C05610884B63B9C6C7291678F9D341",
		gx:   "81BAF91FDF9833C40F9C181343638399",
		gy:   "78C6E7EA38C001F73C8134B1B4EF9E150",
		n:    "400000000000000023123953A9464B54D",
		h:    2,
	},
	{
		name: "sect131r2",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 23},
		m:    131,
		ks:   []int{2, 3, 8},
		a:    "3E5A88919D7CAFCBF415F07C2176573B2",
		b:    "4B8266A46C55657AC734CE38F018F2192",
		gx:   "356DCD8F2F95031AD652D23951BB366A8",
		gy:   "648F06D867940A5366D9E265DE9EB240F",
		n:    "400000000000000016954A233049BA98F",
		h:    2,
	},
	{
		name:    "sect163k1",
		oid:     asn1.ObjectIdentifier{1, 3, 132, 0, 1},
		m:       163,
		ks:      []int{3, 6, 7},
		a:       "1",
		b:       "1",
		gx:      "2FE13C0537BBC11ACAA07D793DE4E6D5E5C94EEE8",
		gy:      "289070FB05D38FF58321F2E800536D538CCDAA3D9",
		n:       "4000000000000000000020108A2E0CC0D99F8A5EF",
		h:       2,
		koblitz: true,
	},
	{
		name: "sect163r1",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 2},
		m:    163,
		ks:   []int{3, 6, 7},
		a:    "7B6882CAAEFA84F9554FF8428BD88E246D2782AE2",
		b:    "713612DCDDCB40AAB946BDA29CA91F73AF958AFD9",
		gx:   "369979697AB43897789566789567F787A7876A654",
		gy:   "435EDB42EFAFB2989D51FEFCE3C80988F41FF883",
		n:    "3FFFFFFFFFFFFFFFFFFFF48AAB689C29CA710279B",
		h:    2,
	},
	{
		name: "sect163r2",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 15},
		m:    163,
		ks:   []int{3, 6, 7},
		a:    "1",
		b:    "20A601907B8C953CA1481EB10512F78744A3205FD",
		gx:   "3F0EBA16286A2D57EA0991168D4994637E8343E36",
		gy:   "D51FBC6C71A0094FA2CDD545B11C5C0C797324F1",
		n:    "40000000000000000000292FE77E70C12A4234C33",
		h:    2,
	},
	{
		name: "sect193r1",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 24},
		m:    193,
		ks:   []int{15},
		a:    "17858FEB7A98975169E171F77B4087DE098AC8A911DF7B01",
		b:    "FDFB49BFE6C3A89FACADAA7A1E5BBC7CC1C2E5D831478814",
		gx:   "1F481BC5F0FF84A74AD6CDF6FDEF4BF6179625372D8C0C5E1",
		gy:   "25E399F2903712CCF3EA9E3A1AD17FB0B3201B6AF7CE1B05",
		n:    "1000000000000000000000000C7F34A778F443ACC920EBA49",
		h:    2,
	},
	{
		name: "sect193r2",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 25},
		m:    193,
		ks:   []int{15},
		a:    "163F35A5137C2CE3EA6ED8667190B0BC43ECD69977702709B",
		b:    "C9BB9E8927D4D64C377E2AB2856A5B16E3EFB7F61D4316AE",
		gx:   "D9B67D192E0367C803F39E1A7E82CA14A651350AAE617E8F",
		gy:   "1CE94335607C304AC29E7DEFBD9CA01F596F927224CDECF6C",
		n:    "10000000000000000000000015AAB561B005413CCD4EE99D5",
		h:    2,
	},
	{
		name:    "sect233k1",
		oid:     asn1.ObjectIdentifier{1, 3, 132, 0, 26},
		m:       233,
		ks:      []int{74},
		a:       "0",
		b:       "1",
		gx:      "17232BA853A7E731AF129F22FF4149563A419C26BF50A4C9D6EEFAD6126",
		gy:      "1DB537DECE819B7F70F555A67C427A8CD9BF18AEB9B56E0C11056FAE6A3",
		n:       "8000000000000000000000000000069D5BB915BCD46EFB1AD5F173ABDF",
		h:       4,
		koblitz: true,
	},
	{
		name: "sect233r1",
		oid:  asn1.ObjectIdentifier{1, 3, 132, 0, 27},
		m:    233,
		ks:   []int{74},
		a:    "1",
		b:    "66647EDE6C332C7F8C0923BB58213B333B20E9CE4281FE115F7D8F90AD",
		gx:   "FAC9DFCBAC8313BB2139F1BB755FEF65BC391F8B36F8F8EB7371FD558B",
		gy:   "1006A08A41903350678E58528BEBF8A0BEFF867A7CA36716F7E01F81052",
		n:    "1000000000000000000000000000013E974E72F8A6922031D2603CFE0D7",
		h:    2,
	},
	{
		name:    "sect239k1",
		oid:     asn1.ObjectIdentifier{1, 3, 132, 0, 3},
		m:       239,
		ks:      []int{158},
		a:       "0",
		b:       "1",
		gx:      "29A0B6A887A983E9730988A68727A8B2D126C44CC2CC7B2A6555193035DC",
		gy:      "76310804F12E549BDB011C103089E73510ACB275FC312A5DC6B76553F0CA",
		n:       "2000000000000000000000000000005A79FEC67CB6E91F1C1DA800E478A5",
		h:       4,
		koblitz: true,
	},}
