package sprites

// Shared colour key. '.' is black in every sprite.
var palette = Key{
	'R': {R: 220, G: 0, B: 0},
	'W': {R: 255, G: 255, B: 255},
	'B': {R: 0, G: 60, B: 255},
	'Y': {R: 255, G: 220, B: 0},
	'O': {R: 255, G: 110, B: 0},
	'K': {R: 20, G: 20, B: 20},
	'N': {R: 120, G: 60, B: 0},
	'S': {R: 255, G: 180, B: 120},
	'P': {R: 255, G: 60, B: 170},
	'L': {R: 80, G: 200, B: 255},
	'G': {R: 0, G: 200, B: 60},
}

var Ghost = Sprite{
	Name: "Pac Man Ghost",
	Icon: "👻",
	Key:  palette,
	Frames: [][]string{
		{
			"................",
			"......RRRR......",
			"....RRRRRRRR....",
			"...RRRRRRRRRR...",
			"..RRWWRRRRWWRR..",
			"..RWWWWRRWWWWR..",
			"..RWWBBRRWWBBR..",
			".RRWWBBRRWWBBRR.",
			".RRRWWRRRRWWRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RR.RRR..RRR.RR.",
			".R...RR..RR...R.",
		},
		{
			"................",
			"......RRRR......",
			"....RRRRRRRR....",
			"...RRRRRRRRRR...",
			"..RRWWRRRRWWRR..",
			"..RWWWWRRWWWWR..",
			"..RBBWWRRBBWWR..",
			".RRBBWWRRBBWWRR.",
			".RRRWWRRRRWWRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRRRRRRRRRRRR.",
			".RRRR.RRRR.RRRR.",
			"..RR...RR...RR..",
		},
	},
}

var MsPacMan = Sprite{
	Name: "Ms Pac-Man",
	Icon: "🟡",
	Key:  palette,
	Frames: [][]string{
		{
			"................",
			"..RR.YYYYYY.....",
			".RRRRYYYYYYYY...",
			"..RRYYYYYYYYYY..",
			"..YYYYKYYYYYY...",
			".YYYYYYYYYYY....",
			".YYYYYYYYYY.....",
			".YYYYYYYY.......",
			".YYYYYYYY.......",
			".YYYYYYYYYY.....",
			".YYYYYYYYYYY....",
			"..YYYYYYYYYYYY..",
			"..YYYYYYYYYYYY..",
			"...YYYYYYYYYY...",
			".....YYYYYY.....",
			"................",
		},
		{
			"................",
			"..RR.YYYYYY.....",
			".RRRRYYYYYYYY...",
			"..RRYYYYYYYYYY..",
			"..YYYYKYYYYYYY..",
			".YYYYYYYYYYYYYY.",
			".YYYYYYYYYYYYYY.",
			".YYYYYYYYYYYYYY.",
			".YYYYYYYYYYYYYY.",
			".YYYYYYYYYYYYYY.",
			".YYYYYYYYYYYYYY.",
			"..YYYYYYYYYYYY..",
			"..YYYYYYYYYYYY..",
			"...YYYYYYYYYY...",
			".....YYYYYY.....",
			"................",
		},
	},
}

var Qbert = Sprite{
	Name: "Qbert",
	Icon: "🟠",
	Key:  palette,
	Frames: [][]string{
		{
			"................",
			".....OOOOO......",
			"....OOOOOOO.....",
			"...OOWWOWWOO....",
			"...OOWKOWKOO....",
			"...OOOOOOOOOO...",
			"...OOOOOOOOOOOO.",
			"....OOOOOOO..OO.",
			".....OOOOO...OO.",
			"......OOO.......",
			".....OO.OO......",
			".....OO.OO......",
			"....OOO.OOO.....",
			"...KKK...KKK....",
			"...KKK...KKK....",
			"................",
		},
		{
			".....OOOOO......",
			"....OOOOOOO.....",
			"...OOWWOWWOO....",
			"...OOKWOKWOO....",
			"...OOOOOOOOOO...",
			"...OOOOOOOOOOOO.",
			"....OOOOOOO..OO.",
			".....OOOOO...OO.",
			"......OOO.......",
			".....OO.OO......",
			"....OO...OO.....",
			"...OO.....OO....",
			"..KKK.....KKK...",
			"..KKK.....KKK...",
			"................",
			"................",
		},
	},
}

var JellyFish = Sprite{
	Name: "Jelly Fish",
	Icon: "🪼",
	Key:  palette,
	Frames: [][]string{
		{
			"................",
			".....PPPPPP.....",
			"...PPPPPPPPPP...",
			"..PPPPPPPPPPPP..",
			"..PPWPPPPPPWPP..",
			"..PPPPPPPPPPPP..",
			"..PPPPPPPPPPPP..",
			"...L.L.L..L.L...",
			"...L.L.L..L.L...",
			"....L.L.LL.L....",
			"....L.L.LL.L....",
			"...L.L.L..L.L...",
			"...L.L.L..L.L...",
			"....L.L.LL.L....",
			"................",
			"................",
		},
		{
			"................",
			"................",
			".....PPPPPP.....",
			"...PPPPPPPPPP...",
			"..PPPPPPPPPPPP..",
			"..PPWPPPPPPWPP..",
			"..PPPPPPPPPPPP..",
			"..PPPPPPPPPPPP..",
			"....L.L.LL.L....",
			"....L.L.LL.L....",
			"...L.L.L..L.L...",
			"...L.L.L..L.L...",
			"....L.L.LL.L....",
			"....L.L.LL.L....",
			"...L.L.L..L.L...",
			"................",
		},
		{
			"................",
			"................",
			"................",
			".....PPPPPP.....",
			"...PPPPPPPPPP...",
			"..PPPPPPPPPPPP..",
			"..PPWPPPPPPWPP..",
			"..PPPPPPPPPPPP..",
			"...PPPPPPPPPP...",
			"...L.L.L..L.L...",
			"...L.L.L..L.L...",
			"....L.L.LL.L....",
			"....L.L.LL.L....",
			"...L.L.L..L.L...",
			"...L.L.L..L.L...",
			"................",
		},
	},
}

var Mario = Sprite{
	Name: "Super Mario",
	Icon: "🍄",
	Key:  palette,
	Frames: [][]string{
		{
			"................",
			".....RRRRR......",
			"....RRRRRRRRR...",
			"....NNNSSKS.....",
			"...NSNSSSKSSS...",
			"...NSNNSSSKSSS..",
			"...NNSSSSKKKK...",
			".....SSSSSSS....",
			"....RRBRRR......",
			"...RRRBRRBRRR...",
			"..RRRRBBBBRRRR..",
			"..SSRBYBBYBRSS..",
			"..SSSBBBBBBSSS..",
			"..SSBBBBBBBBSS..",
			"....BBB..BBB....",
			"...NNN....NNN...",
		},
		{
			"................",
			".....RRRRR......",
			"....RRRRRRRRR...",
			"....NNNSSKS.....",
			"...NSNSSSKSSS...",
			"...NSNNSSSKSSS..",
			"...NNSSSSKKKK...",
			".....SSSSSSS....",
			"...RRRRBRR......",
			"..SRRRRBBRRRS...",
			"..SSRRRBYBBBSS..",
			"..SS.BBBBBBB.S..",
			"....BBBBBBBB....",
			"...BBB...BBB....",
			"..NNN.....NNN...",
			"..NNNN....NNNN..",
		},
	},
}

// All lists the sprite animations in registry order.
var All = []*Sprite{&Ghost, &Qbert, &MsPacMan, &JellyFish, &Mario}
